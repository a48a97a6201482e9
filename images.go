package wikiextract

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

var filePrefixes = []string{"file:", "image:"}

// Files finds all the File and Image references within a parsed
// article body.
//
// Commented-out files are not included; comment bodies are not
// parsed.
func Files(tree Wikicode) []string {
	var rv []string
	seen := map[string]bool{}
	for _, l := range tree.Links() {
		for _, p := range filePrefixes {
			name, ok := trimNamespace(l.Target(), p)
			if ok && name != "" && !seen[name] {
				seen[name] = true
				rv = append(rv, name)
			}
		}
	}
	return rv
}

// URLForFile gets the wikimedia URL for the given named file.
func URLForFile(name string) string {
	m := md5.New()
	name = strings.Replace(name, " ", "_", -1)
	m.Write([]byte(name))
	h := hex.EncodeToString(m.Sum([]byte{}))

	return "http://upload.wikimedia.org/wikipedia/commons/" +
		string(h[0]) + "/" + h[0:2] + "/" + url.QueryEscape(name)
}
