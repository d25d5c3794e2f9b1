package malparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `<?xml version="1.0" encoding="UTF-8" ?>
<myanimelist>
	<myinfo>
		<user_name>reader</user_name>
		<user_export_type>2</user_export_type>
	</myinfo>
	<manga>
		<manga_mangadb_id>2</manga_mangadb_id>
		<manga_title><![CDATA[ Berserk ]]></manga_title>
		<my_read_chapters>364</my_read_chapters>
		<my_status>Reading</my_status>
	</manga>
	<manga>
		<manga_mangadb_id>13</manga_mangadb_id>
		<manga_title><![CDATA[One Piece]]></manga_title>
		<my_read_chapters></my_read_chapters>
		<my_status>Plan to Read</my_status>
	</manga>
</myanimelist>`

func TestParseMALReader(t *testing.T) {
	got, err := ParseMALReader(strings.NewReader(sampleExport))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, Manga{ID: 2, Title: "Berserk", MyStatus: "Reading", MyReadChapters: 364}, got[0])
	assert.Equal(t, Manga{ID: 13, Title: "One Piece", MyStatus: "Plan to Read"}, got[1])
}

func TestParseMALReaderLatin1(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<myanimelist><manga><manga_title>Pok\xe9mon</manga_title><my_status>Completed</my_status></manga></myanimelist>"

	got, err := ParseMALReader(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pokémon", got[0].Title)
}

func TestParseMALReaderErrors(t *testing.T) {
	_, err := ParseMALReader(strings.NewReader("<myanimelist><manga>"))
	assert.Error(t, err)

	_, err = ParseMALReader(strings.NewReader(`<?xml version="1.0" encoding="x-klingon"?><myanimelist/>`))
	assert.Error(t, err)
}

func TestParseMALFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0o600))

	got, err := ParseMALFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = ParseMALFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}
