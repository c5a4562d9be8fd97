package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    uint
		wantErr error
	}{
		{
			name: "originId as numeric string",
			raw:  `{"originId":"2","firstName":"Jules","lastName":"Rabus"}`,
			want: 2,
		},
		{
			name: "originId as number",
			raw:  `{"originId":42}`,
			want: 42,
		},
		{
			name:    "missing originId",
			raw:     `{"foo":"bar"}`,
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "not json",
			raw:     `not a json payload`,
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "empty string",
			raw:     ``,
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "originId not a number",
			raw:     `{"originId":"abc"}`,
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "originId negative",
			raw:     `{"originId":"-3"}`,
			wantErr: ErrMalformedPayload,
		},
		{
			name:    "originId wrong type",
			raw:     `{"originId":{"id":2}}`,
			wantErr: ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePayload(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
