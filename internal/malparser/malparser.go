// Package malparser reads MyAnimeList manga list exports.
package malparser

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

type MALData struct {
	XMLName xml.Name `xml:"myanimelist"`
	Entries []Manga  `xml:"manga"`
}

type Manga struct {
	ID             int    `xml:"manga_mangadb_id"`
	Title          string `xml:"manga_title"`
	MyStatus       string `xml:"my_status"`
	MyReadChapters int    `xml:"my_read_chapters"`
}

func ParseMALFile(path string) ([]Manga, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return ParseMALReader(file)
}

// ParseMALReader parses MAL XML data from any io.Reader. Titles are trimmed.
func ParseMALReader(reader io.Reader) ([]Manga, error) {
	dec := xml.NewDecoder(reader)
	dec.CharsetReader = charsetReader

	var malData MALData
	if err := dec.Decode(&malData); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}

	for i := range malData.Entries {
		malData.Entries[i].Title = strings.TrimSpace(malData.Entries[i].Title)
		malData.Entries[i].MyStatus = strings.TrimSpace(malData.Entries[i].MyStatus)
	}
	return malData.Entries, nil
}

// charsetReader decodes exports saved in a non UTF-8 encoding.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", charset, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("charset %q: unsupported", charset)
	}
	return enc.NewDecoder().Reader(input), nil
}
