package backend

import (
	"net/http"
	"path"
	"strings"
)

// The StaticHandler serves the files of a site without directory listings.
// Directories are served through their index.html. It also implements the
// http.FileSystem interface.
type StaticHandler struct {
	fs     Backend
	prefix string
}

// Serve the file requested by r. Error 404 on directories without an index.
func (sh StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Path
	if strings.HasSuffix(name, "/") {
		name += "index.html"
	}
	f, err := sh.Open(name)
	if err != nil {
		http.Error(w, r.URL.Path, http.StatusNotFound)
		return
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		http.Error(w, r.URL.Path, http.StatusInternalServerError)
		return
	}
	if stat.IsDir() {
		http.Error(w, r.URL.Path, http.StatusNotFound)
		return
	}
	if cid, ok := sh.fs.(CIDer); ok {
		w.Header().Set("ETag", `"`+cid.CID()+`"`)
	}
	http.ServeContent(w, r, stat.Name(), stat.ModTime(), f)
}

// Return a new StaticHandler with new root directory.
func (sh StaticHandler) Cd(p string) StaticHandler {
	sh.prefix = path.Join(sh.prefix, path.Clean("/"+p))
	return sh
}

// Implement the http.FileSystem interface.
func (sh StaticHandler) Open(name string) (http.File, error) {
	return sh.fs.Open(path.Join(sh.prefix, path.Clean("/"+name)))
}

// Serves all files from fs.
func NewStaticHandler(fs Backend) StaticHandler {
	return StaticHandler{fs: fs}
}
