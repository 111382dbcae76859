// Package runtime hosts a component tree.
//
// A Root mounts a node, resolves every component node in it into a
// ComponentInstance with its own vango.Owner, and keeps the resolved tree
// current. Signal writes mark the reading instance dirty; Flush re-renders
// dirty instances parents first and then runs post-commit effects, repeating
// until nothing is dirty.
//
//	root, err := runtime.Mount(vdom.Mount(App()))
//	if err != nil {
//	    return err
//	}
//	defer root.Unmount()
//
//	html, _ := root.HTML()
//
// A Root is driven by one goroutine at a time. MarkDirty may be called from
// any goroutine; Run flushes in the background whenever something is marked.
package runtime
