// Package addonsync implements the tree model and comparison engine used to
// synchronize Wesnoth-style add-on content between clients and servers.
//
// An add-on is an in-memory directory tree of named files. Files are compared
// by content digest (MD5, unpadded base64), never by timestamps or sizes. The
// engine validates names, projects trees onto hashlists, checks containment
// and computes update packs: a removelist plus an addlist that turn one
// version of a tree into another.
//
// Basic usage:
//
//	if ok, bad := addonsync.CheckNames(tree, addonsync.CollectAll); !ok {
//	    // bad holds the offending relative paths
//	}
//
//	pack := addonsync.MakeUpdatePack(have, want)
//	next := pack.Apply(have)
//	// addonsync.TreesEqual(next, want) == true
//
// Trees are plain data and the engine performs no I/O. Reading trees from
// disk, serializing them as WML and storing or distributing them is handled
// by the wml package, the internal packages and the addonsync command.
package addonsync
