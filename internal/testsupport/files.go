package testsupport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// WriteCSV writes header followed by one row per entry of rows into dir/name
// and returns the full path. Single-column rows may be passed as one-element
// slices.
func WriteCSV(t testing.TB, dir, name string, header []string, rows ...[]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("write header %s: %v", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			t.Fatalf("write row %s: %v", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush %s: %v", path, err)
	}
	return path
}

// WriteWallets writes a single "wallet" column file.
func WriteWallets(t testing.TB, dir, name string, wallets ...string) string {
	t.Helper()

	rows := make([][]string, len(wallets))
	for i, wallet := range wallets {
		rows[i] = []string{wallet}
	}
	return WriteCSV(t, dir, name, []string{"wallet"}, rows...)
}
