package fuzz

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridironsim/mock-draft-service/internal/catalog"
)

// FuzzCSVCatalog fuzzes the CSV catalog loader with arbitrary file contents
func FuzzCSVCatalog(f *testing.F) {
	// Seed corpus
	f.Add("ADP,Position,Player,Team\n1.2,RB,Marcus Vale,DAL\n")
	f.Add("ADP,Position,Player,Team,Rookie\n1.2,WR-01,Dontae Whitfield,MIN,1\n")
	f.Add("Player,Team\nMarcus Vale,DAL\n")
	f.Add("ADP,Position,Player,Team\nNaN,RB,X,DAL\n")
	f.Add("")
	f.Add("\"unterminated,quote\nfield")

	f.Fuzz(func(t *testing.T, data string) {
		path := filepath.Join(t.TempDir(), "catalog.csv")
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatalf("write temp catalog: %v", err)
		}

		players, err := catalog.NewCSVSource(path).Load(context.Background())

		// Either an error or a fully validated catalog, never both and never
		// a partially parsed one.
		if err != nil {
			if players != nil {
				t.Errorf("Load returned players alongside error %v", err)
			}
			return
		}
		for _, p := range players {
			if p.Name == "" {
				t.Error("validated catalog contains a player with no name")
			}
		}
	})
}
