package queue

import (
	"encoding/json"
	"testing"
)

func TestDispatchMessageValidate(t *testing.T) {
	t.Parallel()

	configID := "9f0c2b1e-5a84-4a0e-9e5e-1d2f3a4b5c6d"
	blank := "   "

	tests := []struct {
		name    string
		msg     DispatchMessage
		wantErr bool
	}{
		{
			name: "full transition with batch id",
			msg:  DispatchMessage{BatchID: "b1"},
		},
		{
			name:    "full transition without batch id",
			msg:     DispatchMessage{},
			wantErr: true,
		},
		{
			name:    "full transition with blank batch id",
			msg:     DispatchMessage{BatchID: "  "},
			wantErr: true,
		},
		{
			name: "test send with config id",
			msg:  DispatchMessage{IsTest: true, WebhookConfigID: &configID},
		},
		{
			name:    "test send without config id",
			msg:     DispatchMessage{IsTest: true},
			wantErr: true,
		},
		{
			name:    "test send with blank config id",
			msg:     DispatchMessage{IsTest: true, WebhookConfigID: &blank},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.msg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDispatchMessageJSONOmitsEmptyFields(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(DispatchMessage{BatchID: "b1"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"batchId":"b1"}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}
