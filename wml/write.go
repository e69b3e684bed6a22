// Package wml reads and writes add-on trees in the textual WML exchange
// format: nested [dir] and [file] blocks with quoted key="value" attributes,
// plus the [removelist]/[addlist] pair carrying update packs. Binary file
// contents are escaped on write and unescaped on parse, so trees in memory
// always hold raw bytes.
package wml

import (
	"bufio"
	"io"
	"strings"

	"github.com/pehjota/addonsync"
)

// WriteTree writes root as a [dir] block.
func WriteTree(w io.Writer, root *addonsync.Dir) error {
	bw := bufio.NewWriter(w)
	writeDir(bw, root, "dir", 0)
	return bw.Flush()
}

// WritePack writes pack as a [removelist] block followed by an [addlist]
// block.
func WritePack(w io.Writer, pack *addonsync.UpdatePack) error {
	bw := bufio.NewWriter(w)
	writeDir(bw, pack.Removelist, "removelist", 0)
	writeDir(bw, pack.Addlist, "addlist", 0)
	return bw.Flush()
}

func writeDir(w *bufio.Writer, d *addonsync.Dir, tag string, depth int) {
	writeOpen(w, tag, depth)
	writeAttr(w, depth+1, "name", []byte(d.Name))
	for _, f := range d.Files {
		writeOpen(w, "file", depth+1)
		writeAttr(w, depth+2, "name", []byte(f.Name))
		if f.Contents != nil {
			writeAttr(w, depth+2, "contents", addonsync.EncodeBinary(f.Contents))
		}
		if f.Hash != "" {
			writeAttr(w, depth+2, "hash", []byte(f.Hash))
		}
		writeClose(w, "file", depth+1)
	}
	for _, sub := range d.Dirs {
		writeDir(w, sub, "dir", depth+1)
	}
	writeClose(w, tag, depth)
}

func writeOpen(w *bufio.Writer, tag string, depth int) {
	w.WriteString(indent(depth))
	w.WriteByte('[')
	w.WriteString(tag)
	w.WriteString("]\n")
}

func writeClose(w *bufio.Writer, tag string, depth int) {
	w.WriteString(indent(depth))
	w.WriteString("[/")
	w.WriteString(tag)
	w.WriteString("]\n")
}

// writeAttr quotes the value, doubling embedded quotes. Escaped binary
// passes through as-is; quoted values may span lines.
func writeAttr(w *bufio.Writer, depth int, key string, value []byte) {
	w.WriteString(indent(depth))
	w.WriteString(key)
	w.WriteString(`="`)
	for _, b := range value {
		if b == '"' {
			w.WriteString(`""`)
			continue
		}
		w.WriteByte(b)
	}
	w.WriteString("\"\n")
}

func indent(depth int) string {
	return strings.Repeat("\t", depth)
}
