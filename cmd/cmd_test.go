package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Another0Noob/mangadex-mal-import/internal/config"
)

const (
	titanID = "304ceac3-8cdb-4fe7-acf7-2b6ff7580f2a"

	export = `<?xml version="1.0" encoding="UTF-8" ?>
<myanimelist>
	<manga>
		<manga_title><![CDATA[Attack on Titan]]></manga_title>
		<my_status>Reading</my_status>
	</manga>
	<manga>
		<manga_title><![CDATA[Berserk]]></manga_title>
		<my_status>Plan to Read</my_status>
	</manga>
</myanimelist>`
)

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.xml")
	require.NoError(t, os.WriteFile(path, []byte(export), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func setCredentials(t *testing.T) {
	t.Setenv("MANGADEX_GRANT_TYPE", "password")
	t.Setenv("MANGADEX_USERNAME", "reader")
	t.Setenv("MANGADEX_PASSWORD", "secret")
	t.Setenv("MANGADEX_CLIENT_ID", "personal-client")
	t.Setenv("MANGADEX_CLIENT_SECRET", "shh")
}

func TestStatsCommand(t *testing.T) {
	out, err := execute(t, "stats", "-i", writeExport(t))
	require.NoError(t, err)

	assert.Regexp(t, `Reading\s+│\s+1`, out)
	assert.Regexp(t, `PlanToRead\s+│\s+1`, out)
	assert.Regexp(t, `TOTAL\s+│\s+2`, out)
}

func TestStatsCommandBadFile(t *testing.T) {
	_, err := execute(t, "stats", "-i", filepath.Join(t.TempDir(), "missing.xml"))
	assert.ErrorContains(t, err, "parse MAL file")
}

func TestImportMissingCredentials(t *testing.T) {
	for _, name := range []string{"MANGADEX_GRANT_TYPE", "MANGADEX_USERNAME", "MANGADEX_PASSWORD", "MANGADEX_CLIENT_ID", "MANGADEX_CLIENT_SECRET"} {
		t.Setenv(name, "")
	}
	t.Setenv("MANGADEX_USERNAME", "reader")

	_, err := execute(t, "import", "-i", writeExport(t), "--config", "", "--cleanup=false", "--dry-run=false")

	var missing *config.MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"MANGADEX_GRANT_TYPE", "MANGADEX_PASSWORD", "MANGADEX_CLIENT_ID", "MANGADEX_CLIENT_SECRET"}, missing.Names)
}

type fakeMangaDex struct {
	mu       sync.Mutex
	searches []string
	updates  []any
}

func (f *fakeMangaDex) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.URL.Path == "/token":
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "reader", r.PostForm.Get("username"))
			io.WriteString(w, `{"access_token":"tok","refresh_token":"ref","expires_in":900}`)
		case r.URL.Path == "/manga":
			f.searches = append(f.searches, r.URL.Query().Get("title"))
			if r.URL.Query().Get("title") != "attack,titan" {
				io.WriteString(w, `{"result":"ok","data":[]}`)
				return
			}
			io.WriteString(w, `{"result":"ok","data":[{"id":"`+titanID+`","attributes":{"title":{"en":"Attack on Titan"},"altTitles":[{"ja":"Shingeki no Kyojin"}]}}]}`)
		case r.URL.Path == "/manga/"+titanID+"/status" && r.Method == http.MethodPost:
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.updates = append(f.updates, body["status"])
			io.WriteString(w, `{"result":"ok"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestImportCommand(t *testing.T) {
	fake := &fakeMangaDex{}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	setCredentials(t)
	t.Setenv("MANGADEX_API_BASE_URL", srv.URL)
	t.Setenv("MANGADEX_API_AUTH_URL", srv.URL+"/token")
	t.Setenv("MANGADEX_IMPORT_IMPORT_INTERVAL", "1ms")
	t.Setenv("MANGADEX_IMPORT_CLEANUP_INTERVAL", "1ms")
	t.Setenv("MANGADEX_LOCK_PATH", filepath.Join(t.TempDir(), "import.lock"))

	out, err := execute(t, "import", "-i", writeExport(t), "--config", "", "--cleanup", "--dry-run=false", "--log-format", "json")
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []string{"attack,titan", "berserk"}, fake.searches)
	assert.Equal(t, []any{"reading", nil}, fake.updates)

	assert.Contains(t, out, "Successfully processed 1 manga, 0 failed updates, 1 unmatched.")
	assert.Contains(t, out, "Cleared 1 statuses, 0 failed.")
	assert.Regexp(t, `Berserk\s+│\s+PlanToRead\s+│\s+no candidates`, out)
}

func TestImportCommandDryRun(t *testing.T) {
	fake := &fakeMangaDex{}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	setCredentials(t)
	t.Setenv("MANGADEX_API_BASE_URL", srv.URL)
	t.Setenv("MANGADEX_API_AUTH_URL", srv.URL+"/token")
	t.Setenv("MANGADEX_IMPORT_IMPORT_INTERVAL", "1ms")
	t.Setenv("MANGADEX_LOCK_PATH", filepath.Join(t.TempDir(), "import.lock"))

	_, err := execute(t, "import", "-i", writeExport(t), "--config", "", "--cleanup=false", "--dry-run", "--log-format", "json")
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Len(t, fake.searches, 2)
	assert.Empty(t, fake.updates)
}
