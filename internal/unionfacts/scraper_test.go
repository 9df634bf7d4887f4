package unionfacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laborstats/uniondir/internal/config"
)

const directoryPage = `<html><body>
<div class="tab-content">
<table>
<thead><tr><th>Union</th><th>Unit Name</th><th>Location</th><th>Members</th></tr></thead>
<tbody>
<tr><td><a href="/lu/237">Local 237 - Niagara Falls</a></td><td>IBEW</td><td>Niagara Falls, NY</td><td>1,234</td></tr>
<tr><td><a href="/lu/80">Local 80</a></td><td>IBEW</td><td>Norfolk, VA</td><td>567</td></tr>
<tr><td><a href="/hq">Headquarters</a></td><td>IBEW</td><td>Washington, DC</td><td>99</td></tr>
</tbody>
</table>
</div>
</body></html>`

func newTestScraper(srvURL string) *Scraper {
	return NewScraper(
		config.UnionFactsConfig{DirectoryURL: srvURL, SiteOrigin: "https://unionfacts.com"},
		config.HTTPConfig{TimeoutSecs: 5, UserAgent: "test-agent"},
		config.EnrichConfig{MaxConcurrent: 10},
	)
}

func TestDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte(directoryPage))
	}))
	defer srv.Close()

	entries := newTestScraper(srv.URL).Directory(context.Background())
	require.Len(t, entries, 2)

	assert.Equal(t, "Local 237 - Niagara Falls", entries[0].Union)
	assert.Equal(t, "237", entries[0].LU)
	assert.Equal(t, "IBEW", entries[0].UnitName)
	assert.Equal(t, "Niagara Falls, NY", entries[0].Location)
	assert.Equal(t, 1234, entries[0].Members)
	assert.Equal(t, "https://unionfacts.com/lu/237", entries[0].URL)

	// Rows without a "Local <digits>" label are dropped.
	assert.Equal(t, "80", entries[1].LU)
	assert.Equal(t, 567, entries[1].Members)
}

func TestDirectory_NoTableYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="tab-content"><p>nothing here</p></div></body></html>`))
	}))
	defer srv.Close()

	entries := newTestScraper(srv.URL).Directory(context.Background())
	assert.Empty(t, entries)
}

func TestDirectory_NonOKStatusYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	entries := newTestScraper(srv.URL).Directory(context.Background())
	assert.Empty(t, entries)
}

func TestDirectory_BadMemberCountDropsRow(t *testing.T) {
	page := `<html><body><div class="tab-content"><table><tbody>
<tr><td><a href="/lu/5">Local 5</a></td><td>IBEW</td><td>Boston, MA</td><td>n/a</td></tr>
</tbody></table></div></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	entries := newTestScraper(srv.URL).Directory(context.Background())
	assert.Empty(t, entries)
}

func TestDirectory_PreservesRowOrder(t *testing.T) {
	page := `<html><body><div class="tab-content"><table><tbody>
<tr><td><a href="/lu/3">Local 3</a></td><td>a</td><td>x</td><td>1</td></tr>
<tr><td><a href="/lu/1">Local 1</a></td><td>b</td><td>y</td><td>2</td></tr>
<tr><td><a href="/lu/2">Local 2</a></td><td>c</td><td>z</td><td>3</td></tr>
</tbody></table></div></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	entries := newTestScraper(srv.URL).Directory(context.Background())
	require.Len(t, entries, 3)
	assert.Equal(t, "3", entries[0].LU)
	assert.Equal(t, "1", entries[1].LU)
	assert.Equal(t, "2", entries[2].LU)
}

func TestParseRow_LocalNumberPattern(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"with city", "Local 237 - City", "237"},
		{"bare", "Local 9", "9"},
		{"no number", "District Council", ""},
		{"lowercase", "local 12", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := localNumberPattern.FindStringSubmatch(tt.label)
			if tt.want == "" {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.Equal(t, tt.want, m[1])
		})
	}
}
