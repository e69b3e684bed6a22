package addonsync

// File is a single named file inside an add-on tree. Contents holds the raw
// payload; a nil Contents means only the name (and possibly a digest) is
// carried, as in hashlists and removelists. Hash optionally holds a
// precomputed content digest, where the zero value means "not computed".
type File struct {
	Name     string
	Contents []byte
	Hash     Digest
}

// Dir is a directory node: a name plus child files and subdirectories. Child
// order is preserved from construction but carries no meaning for
// comparison. There are no parent pointers; a tree is owned by its root.
type Dir struct {
	Name  string
	Files []*File
	Dirs  []*Dir
}

// FindFile returns the first child file with the given name, or nil.
func (d *Dir) FindFile(name string) *File {
	for _, f := range d.Files {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FindDir returns the first child directory with the given name, or nil.
func (d *Dir) FindDir(name string) *Dir {
	for _, sub := range d.Dirs {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

// AddFile appends a new empty file and returns it.
func (d *Dir) AddFile(name string) *File {
	f := &File{Name: name}
	d.Files = append(d.Files, f)
	return f
}

// AddDir appends a new empty subdirectory and returns it.
func (d *Dir) AddDir(name string) *Dir {
	sub := &Dir{Name: name}
	d.Dirs = append(d.Dirs, sub)
	return sub
}
