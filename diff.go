package addonsync

// Difference appends to out every file and subdirectory of to that has no
// digest match in from, reusing the missing-directory rule of Contains. With
// withContent the appended files carry contents and resolved digest; without
// it only names, which is the removelist form. Subdirectories contributing
// nothing are dropped entirely. out.Name is set to to.Name either way, and
// the return value reports whether out received any entries.
//
// Renames are not detected: a renamed file is a removal plus an addition.
func Difference(out, from, to *Dir, withContent bool) bool {
	out.Name = to.Name
	changed := false

	for _, f := range to.Files {
		found := false
		for _, h := range from.Files {
			if FilesEqual(h, f) {
				found = true
				break
			}
		}
		if found {
			continue
		}
		nf := &File{Name: f.Name}
		if withContent {
			nf.Contents = f.Contents
			nf.Hash = f.ContentDigest()
		}
		out.Files = append(out.Files, nf)
		changed = true
	}

	for _, sub := range to.Dirs {
		base := from.FindDir(sub.Name)
		if base == nil {
			base = &Dir{Name: sub.Name}
		}
		child := &Dir{}
		if Difference(child, base, sub, withContent) {
			out.Dirs = append(out.Dirs, child)
			changed = true
		}
	}

	return changed
}

// UpdatePack is the two-sided difference between two versions of a tree:
// everything to delete from the old version and everything to add on top.
// A file whose contents changed appears in both lists.
type UpdatePack struct {
	Removelist *Dir
	Addlist    *Dir
}

// MakeUpdatePack computes the pack that turns from into to: the removelist
// is the name-only reverse difference, the addlist the content-carrying
// forward difference. Equal trees produce a pack with both sides empty.
func MakeUpdatePack(from, to *Dir) *UpdatePack {
	removelist := &Dir{}
	Difference(removelist, to, from, false)
	addlist := &Dir{}
	Difference(addlist, from, to, true)
	return &UpdatePack{Removelist: removelist, Addlist: addlist}
}

// Apply produces the tree that results from applying the pack to base:
// removelist entries are deleted first, then addlist entries are added,
// replacing same-named files. Removal must precede addition because a
// modified file is listed on both sides. base is left untouched; unchanged
// file contents are shared with the result, not copied. Directories emptied
// by the removelist remain as empty nodes, which comparisons ignore.
func (p *UpdatePack) Apply(base *Dir) *Dir {
	out := cloneTree(base)
	if p.Removelist != nil {
		removeEntries(out, p.Removelist)
	}
	if p.Addlist != nil {
		addEntries(out, p.Addlist)
	}
	return out
}

// TreesEqual reports whether two trees carry the same files with the same
// digests under the same directory paths, ignoring empty directories. Root
// names are not compared.
func TreesEqual(a, b *Dir) bool {
	return Contains(a, b) && Contains(b, a)
}

func cloneTree(d *Dir) *Dir {
	out := &Dir{Name: d.Name}
	for _, f := range d.Files {
		nf := *f
		out.Files = append(out.Files, &nf)
	}
	for _, sub := range d.Dirs {
		out.Dirs = append(out.Dirs, cloneTree(sub))
	}
	return out
}

func removeEntries(tree, rm *Dir) {
	for _, f := range rm.Files {
		for i, have := range tree.Files {
			if have.Name == f.Name {
				tree.Files = append(tree.Files[:i], tree.Files[i+1:]...)
				break
			}
		}
	}
	for _, sub := range rm.Dirs {
		if target := tree.FindDir(sub.Name); target != nil {
			removeEntries(target, sub)
		}
	}
}

func addEntries(tree, add *Dir) {
	for _, f := range add.Files {
		if have := tree.FindFile(f.Name); have != nil {
			have.Contents = f.Contents
			have.Hash = f.Hash
			continue
		}
		nf := *f
		tree.Files = append(tree.Files, &nf)
	}
	for _, sub := range add.Dirs {
		target := tree.FindDir(sub.Name)
		if target == nil {
			target = tree.AddDir(sub.Name)
		}
		addEntries(target, sub)
	}
}
