package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeProfileURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "already canonical",
			in:   "https://www.linkedin.com/in/jane-doe",
			want: "https://www.linkedin.com/in/jane-doe",
		},
		{
			name: "strips tracking query",
			in:   "https://www.linkedin.com/in/jane-doe?miniProfileUrn=urn%3Ali%3Afs",
			want: "https://www.linkedin.com/in/jane-doe",
		},
		{
			name: "strips fragment",
			in:   "https://www.linkedin.com/in/jane-doe#about",
			want: "https://www.linkedin.com/in/jane-doe",
		},
		{
			name: "trims trailing slash",
			in:   "https://www.linkedin.com/in/jane-doe/",
			want: "https://www.linkedin.com/in/jane-doe",
		},
		{
			name: "lowercases scheme and host",
			in:   "HTTPS://WWW.LinkedIn.COM/in/Jane-Doe",
			want: "https://www.linkedin.com/in/Jane-Doe",
		},
		{
			name: "path case preserved",
			in:   "https://www.linkedin.com/in/JaneDoe42",
			want: "https://www.linkedin.com/in/JaneDoe42",
		},
		{
			name: "schemeless input gets https",
			in:   "www.linkedin.com/in/jane-doe",
			want: "https://www.linkedin.com/in/jane-doe",
		},
		{
			name: "whitespace trimmed",
			in:   "  https://www.linkedin.com/in/jane-doe  ",
			want: "https://www.linkedin.com/in/jane-doe",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeProfileURL(tt.in))
		})
	}
}

func TestNormalizeProfileURL_Idempotent(t *testing.T) {
	in := "https://www.linkedin.com/in/jane-doe/?trk=public#x"
	once := NormalizeProfileURL(in)
	assert.Equal(t, once, NormalizeProfileURL(once))
}
