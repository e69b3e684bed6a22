package disk

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pehjota/addonsync"
)

func sampleTree() *addonsync.Dir {
	root := &addonsync.Dir{Name: "My_Addon"}
	root.AddFile("_main.cfg").Contents = []byte("version=\"1.0\"\n")
	root.AddFile("readme.txt").Contents = []byte("hello\n")
	units := root.AddDir("units")
	units.AddFile("knight.cfg").Contents = []byte("[unit]\n[/unit]\n")
	root.AddDir("images")
	return root
}

func TestWriteTreeScanRoundTrip(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "My_Addon")
	tree := sampleTree()

	if err := WriteTree(dest, tree); err != nil {
		t.Fatalf("WriteTree: %v", err)
	}

	got, err := Scan(dest)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got.Name != "My_Addon" {
		t.Errorf("scanned root name = %q", got.Name)
	}
	if !addonsync.TreesEqual(got, tree) {
		t.Error("scanned tree differs from the written one")
	}

	// Scan precomputes digests.
	f := got.FindFile("_main.cfg")
	if f == nil || f.Hash == "" {
		t.Error("scanned file has no precomputed digest")
	}
	if f != nil && f.Hash != addonsync.Sum(f.Contents) {
		t.Error("precomputed digest does not match the contents")
	}
}

func TestScanDefaultIgnores(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"keep.cfg":          "keep",
		".hidden":           "no",
		"draft.cfg~":        "no",
		"old.bak":           "no",
		"upload.pbl":        "no",
		"#note#":            "no",
		"sub/also_kept.cfg": "keep",
		"sub/_server.ign":   "no",
		".git/config":       "no",
		"__pycache__/x.pyc": "no",
	}
	for name, contents := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tree, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(tree.Files) != 1 || tree.Files[0].Name != "keep.cfg" {
		t.Errorf("root files = %v, want just keep.cfg", fileNames(tree))
	}
	if len(tree.Dirs) != 1 || tree.Dirs[0].Name != "sub" {
		t.Fatalf("root dirs = %d, want just sub", len(tree.Dirs))
	}
	sub := tree.Dirs[0]
	if len(sub.Files) != 1 || sub.Files[0].Name != "also_kept.cfg" {
		t.Errorf("sub files = %v, want just also_kept.cfg", fileNames(sub))
	}
}

func TestScanIgnoreFileReplacesDefaults(t *testing.T) {
	dir := t.TempDir()
	ign := "# project ignores\n\n*.tmp\n"
	if err := os.WriteFile(filepath.Join(dir, IgnoreFile), []byte(ign), 0o644); err != nil {
		t.Fatal(err)
	}
	for name, contents := range map[string]string{
		"junk.tmp": "no",
		".hidden":  "kept now",
		"main.cfg": "keep",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tree, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	names := fileNames(tree)
	want := map[string]bool{".hidden": true, "main.cfg": true}
	if len(names) != len(want) {
		t.Fatalf("scanned files = %v, want %v", names, want)
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected file %q in scan", n)
		}
	}
}

func TestScanWithIgnoreOption(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"README.md", "main.cfg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tree, err := Scan(dir, WithIgnore([]string{"*.md"}))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(tree.Files) != 1 || tree.Files[0].Name != "main.cfg" {
		t.Errorf("scanned files = %v, want just main.cfg", fileNames(tree))
	}
}

func TestWriteTreeRefusesBadTrees(t *testing.T) {
	dir := t.TempDir()

	bad := &addonsync.Dir{Name: "A"}
	bad.AddFile("bad name.cfg").Contents = []byte("x")
	if err := WriteTree(filepath.Join(dir, "illegal"), bad); err == nil {
		t.Error("WriteTree accepted an illegal file name")
	}

	dup := &addonsync.Dir{Name: "A"}
	dup.AddFile("readme.txt").Contents = []byte("x")
	dup.AddFile("README.txt").Contents = []byte("y")
	if err := WriteTree(filepath.Join(dir, "dup"), dup); err == nil {
		t.Error("WriteTree accepted case-colliding names")
	}

	hashOnly := &addonsync.Dir{Name: "A"}
	hashOnly.AddFile("listed.cfg").Hash = addonsync.Sum([]byte("x"))
	err := WriteTree(filepath.Join(dir, "hashonly"), hashOnly)
	if err == nil || !strings.Contains(err.Error(), "payload") {
		t.Errorf("WriteTree of a hashlist entry = %v, want payload error", err)
	}
}

func TestSaveReadTreeFiles(t *testing.T) {
	tree := sampleTree()
	dir := t.TempDir()

	for _, name := range []string{"tree.wml", "tree.wml.gz"} {
		path := filepath.Join(dir, name)
		if err := SaveTree(path, tree); err != nil {
			t.Fatalf("SaveTree(%s): %v", name, err)
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		isGz := len(raw) > 2 && raw[0] == 0x1f && raw[1] == 0x8b
		if want := strings.HasSuffix(name, ".gz"); isGz != want {
			t.Errorf("%s gzip framing = %v, want %v", name, isGz, want)
		}

		got, err := ReadTree(path)
		if err != nil {
			t.Fatalf("ReadTree(%s): %v", name, err)
		}
		if !addonsync.TreesEqual(got, tree) {
			t.Errorf("%s did not round trip", name)
		}
	}
}

func TestReadTreeDirectory(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "My_Addon")
	if err := WriteTree(dest, sampleTree()); err != nil {
		t.Fatalf("WriteTree: %v", err)
	}

	got, err := ReadTree(dest)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if !addonsync.TreesEqual(got, sampleTree()) {
		t.Error("ReadTree of a directory differs from Scan")
	}
}

func TestSaveReadPack(t *testing.T) {
	from := sampleTree()
	to := sampleTree()
	to.FindFile("_main.cfg").Contents = []byte("version=\"2.0\"\n")
	pack := addonsync.MakeUpdatePack(from, to)

	dir := t.TempDir()
	for _, name := range []string{"up.wml", "up.wml.gz"} {
		path := filepath.Join(dir, name)
		if err := SavePack(path, pack); err != nil {
			t.Fatalf("SavePack(%s): %v", name, err)
		}
		got, err := ReadPack(path)
		if err != nil {
			t.Fatalf("ReadPack(%s): %v", name, err)
		}
		if !addonsync.TreesEqual(got.Removelist, pack.Removelist) {
			t.Errorf("%s removelist did not round trip", name)
		}
		if !addonsync.TreesEqual(got.Addlist, pack.Addlist) {
			t.Errorf("%s addlist did not round trip", name)
		}
	}
}

func fileNames(d *addonsync.Dir) []string {
	var names []string
	for _, f := range d.Files {
		names = append(names, f.Name)
	}
	return names
}
