package config

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHeaderString(t *testing.T) {
	tests := []struct {
		name            string
		headerStrings   []string
		expectedHeaders http.Header
		expectedErr     error
	}{
		{
			name:            "single header",
			headerStrings:   []string{"X-Test-String: Test"},
			expectedHeaders: http.Header{"X-Test-String": {"Test"}},
		},
		{
			name:            "value with colons",
			headerStrings:   []string{"Content-Security-Policy: default-src 'self'; connect-src https://gitlab.com:443"},
			expectedHeaders: http.Header{"Content-Security-Policy": {"default-src 'self'; connect-src https://gitlab.com:443"}},
		},
		{
			name:            "repeated header",
			headerStrings:   []string{"Link: </a.css>", "Link: </b.css>"},
			expectedHeaders: http.Header{"Link": {"</a.css>", "</b.css>"}},
		},
		{
			name:            "canonical names",
			headerStrings:   []string{"x-frame-options: DENY"},
			expectedHeaders: http.Header{"X-Frame-Options": {"DENY"}},
		},
		{
			name:          "missing colon",
			headerStrings: []string{"X-Test-String Test"},
			expectedErr:   errInvalidHeaderParameter,
		},
		{
			name:          "missing name",
			headerStrings: []string{": Test"},
			expectedErr:   errInvalidHeaderParameter,
		},
		{
			name:            "no headers",
			expectedHeaders: http.Header{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHeaderString(tt.headerStrings)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				require.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.expectedHeaders, got)
		})
	}
}
