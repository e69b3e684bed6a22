package addonsync

import "testing"

func sampleTree() *Dir {
	root := &Dir{Name: "My_Addon"}
	root.AddFile("readme.txt").Contents = []byte("hello")
	root.AddFile("_main.cfg").Contents = []byte("version=1")
	maps := root.AddDir("maps")
	maps.AddFile("01.map").Contents = []byte("map data")
	root.AddDir("images")
	return root
}

func TestBuildHashlist(t *testing.T) {
	root := sampleTree()
	stale := root.AddFile("stale.cfg")
	stale.Contents = []byte("fresh bytes")
	stale.Hash = "bogusbogusbogusbogusbo"

	hl := BuildHashlist(root)

	if hl.Name != "My_Addon" {
		t.Errorf("root name = %q, want My_Addon", hl.Name)
	}
	if len(hl.Files) != 3 || len(hl.Dirs) != 2 {
		t.Fatalf("shape = %d files, %d dirs, want 3 and 2", len(hl.Files), len(hl.Dirs))
	}

	if f := hl.Files[0]; f.Name != "readme.txt" || f.Hash != Sum([]byte("hello")) || f.Contents != nil {
		t.Errorf("first entry = %+v", f)
	}
	if hl.Files[2].Hash != Sum([]byte("fresh bytes")) {
		t.Error("stored hash was trusted; hashlists must recompute digests")
	}
	if sub := hl.Dirs[0]; sub.Name != "maps" || len(sub.Files) != 1 {
		t.Errorf("maps entry = %+v", sub)
	}
	if root.Files[2].Hash != "bogusbogusbogusbogusbo" {
		t.Error("input tree was modified")
	}
}

func TestContains(t *testing.T) {
	tree := sampleTree()
	hl := BuildHashlist(tree)

	if !Contains(tree, hl) {
		t.Error("tree does not contain its own hashlist")
	}
	if !Contains(hl, hl) {
		t.Error("hashlist does not contain itself")
	}

	changed := sampleTree()
	changed.Dirs[0].Files[0].Contents = []byte("edited map")
	if Contains(tree, BuildHashlist(changed)) {
		t.Error("modified file reported as contained")
	}

	extra := sampleTree()
	extra.AddFile("new.cfg").Contents = []byte("x")
	if Contains(tree, BuildHashlist(extra)) {
		t.Error("extra file reported as contained")
	}
}

func TestContainsMissingDirRule(t *testing.T) {
	tree := sampleTree()

	want := &Dir{Name: "My_Addon"}
	want.AddDir("not_there_yet")
	if !Contains(tree, want) {
		t.Error("empty new subdirectory should be contained")
	}

	deepEmpty := &Dir{Name: "My_Addon"}
	deepEmpty.AddDir("a").AddDir("b")
	if !Contains(tree, deepEmpty) {
		t.Error("nested empty subdirectories should be contained")
	}

	withFile := &Dir{Name: "My_Addon"}
	withFile.AddDir("not_there_yet").AddFile("x").Hash = Sum([]byte("x"))
	if Contains(tree, withFile) {
		t.Error("file under a missing subdirectory reported as contained")
	}
}
