package urlutil_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul4469/seo-master/internal/urlutil"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare domain gets https", "example.com", "https://example.com"},
		{"http kept", "http://example.com", "http://example.com"},
		{"https kept", "https://example.com", "https://example.com"},
		{"trailing slash dropped", "https://example.com/", "https://example.com"},
		{"whitespace trimmed", "  example.com  ", "https://example.com"},
		{"path preserved", "example.com/blog/post", "https://example.com/blog/post"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, urlutil.Normalize(tt.in))
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"https URL", "https://example.com", false},
		{"http URL", "http://example.com/page?q=1", false},
		{"empty", "", true},
		{"no scheme", "example.com", true},
		{"ftp scheme", "ftp://example.com", true},
		{"javascript scheme", "javascript:alert(1)", true},
		{"scheme only", "https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := urlutil.Validate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, urlutil.ErrInvalidURL)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "https://example.com", "example.com"},
		{"subdomain stripped", "https://blog.example.com/post", "example.com"},
		{"multi-label suffix", "https://blog.example.co.uk", "example.co.uk"},
		{"port ignored", "https://example.com:8443/x", "example.com"},
		{"localhost as-is", "http://localhost:5000", "localhost"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, urlutil.Domain(tt.in))
		})
	}
}

func TestAbsolute(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com/blog/")
	require.NoError(t, err)

	tests := []struct {
		name string
		href string
		want string
	}{
		{"relative path", "post", "https://example.com/blog/post"},
		{"root path", "/about", "https://example.com/about"},
		{"absolute URL", "https://other.com/x", "https://other.com/x"},
		{"protocol relative", "//cdn.example.com/a.js", "https://cdn.example.com/a.js"},
		{"fragment only", "#top", ""},
		{"mailto", "mailto:hi@example.com", ""},
		{"javascript", "javascript:void(0)", ""},
		{"fragment stripped", "/page#sec", "https://example.com/page"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, urlutil.Absolute(base, tt.href))
		})
	}
}

func TestIsInternal(t *testing.T) {
	t.Parallel()

	assert.True(t, urlutil.IsInternal("https://example.com/page", "example.com"))
	assert.True(t, urlutil.IsInternal("https://www.example.com/page", "example.com"))
	assert.False(t, urlutil.IsInternal("https://other.com", "example.com"))
	assert.False(t, urlutil.IsInternal("https://example.com", ""))
}
