package webui

import (
	"io/fs"
	"strings"
	"testing"
)

func TestStaticFSServesIndex(t *testing.T) {
	t.Parallel()

	data, err := fs.ReadFile(StaticFS(), "index.html")
	if err != nil {
		t.Fatalf("read index.html: %v", err)
	}
	if !strings.Contains(string(data), "/v1/containers") {
		t.Fatal("index.html does not talk to the container API")
	}
}
