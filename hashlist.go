package addonsync

// BuildHashlist projects a tree onto its digest skeleton: the same directory
// structure with every file reduced to a name and a freshly computed content
// digest. Stored hashes on the input are ignored so the hashlist always
// reflects the bytes actually present. Child order mirrors the input.
func BuildHashlist(tree *Dir) *Dir {
	out := &Dir{Name: tree.Name}
	for _, f := range tree.Files {
		out.Files = append(out.Files, &File{Name: f.Name, Hash: Sum(f.Contents)})
	}
	for _, sub := range tree.Dirs {
		out.Dirs = append(out.Dirs, BuildHashlist(sub))
	}
	return out
}

// Contains reports whether every file of want has a same-named, same-digest
// match at the corresponding level of have. A subdirectory missing from have
// is treated as empty: empty directories of want are always contained, files
// under a missing subdirectory never are.
func Contains(have, want *Dir) bool {
	for _, w := range want.Files {
		found := false
		for _, h := range have.Files {
			if FilesEqual(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, w := range want.Dirs {
		h := have.FindDir(w.Name)
		if h == nil {
			h = &Dir{Name: w.Name}
		}
		if !Contains(h, w) {
			return false
		}
	}
	return true
}
