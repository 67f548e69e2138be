package websocket

import "testing"

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantSender int
		wantErr    bool
	}{
		{
			name:       "valid frame",
			payload:    `{"idUser": 3, "content": "hello"}`,
			wantSender: 3,
		},
		{
			name:       "id only",
			payload:    `{"idUser":7}`,
			wantSender: 7,
		},
		{
			name:    "missing idUser",
			payload: `{"content": "hello"}`,
			wantErr: true,
		},
		{
			name:    "null idUser",
			payload: `{"idUser": null}`,
			wantErr: true,
		},
		{
			name:    "non-numeric idUser",
			payload: `{"idUser": "three"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			payload: `User [3]: hello`,
			wantErr: true,
		},
		{
			name:    "empty payload",
			payload: ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := DecodeEnvelope([]byte(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected decode error, got sender %d", env.SenderID)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if env.SenderID != tt.wantSender {
				t.Fatalf("expected sender %d, got %d", tt.wantSender, env.SenderID)
			}
			if string(env.Raw) != tt.payload {
				t.Fatalf("expected raw payload preserved, got %q", env.Raw)
			}
		})
	}
}
