package main

import (
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	g "github.com/gogits/git"
	"github.com/lemmi/compress"
	"github.com/lemmi/ghfs"
	"github.com/lemmi/glubpage/backend"
	"github.com/pkg/errors"
)

var (
	DEBUG bool
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func HttpError(w http.ResponseWriter, code int, logErr error) {
	if DEBUG {
		switch err := logErr.(type) {
		case stackTracer:
			log.Print(err)
			log.Printf("%+v", err.StackTrace())
		default:
			log.Print(err)
		}
	} else {
		log.Print(logErr)
	}
	http.Error(w, http.StatusText(code), code)
}

// gitBackend serves the tree of a single commit.
type gitBackend struct {
	http.FileSystem
	id string
}

func (b gitBackend) CID() string {
	return b.id
}

func openGit(path string) (backend.Backend, error) {
	repo, err := g.OpenRepository(path)
	if err != nil {
		return nil, errors.Wrap(err, "g.OpenRepository("+path+")")
	}
	commit, err := repo.GetCommitOfBranch("master")
	if err != nil {
		return nil, errors.Wrap(err, "Can not open master branch")
	}
	return gitBackend{
		FileSystem: ghfs.FromCommit(commit),
		id:         strings.Trim(commit.Id.String(), "\""),
	}, nil
}

// The site is static: pages, posts/manifest.json, assets/ and the renderer
// bundle are served as they are. dir is the site root inside prefix or the
// git tree.
type handler struct {
	prefix string
	dir    string
	git    bool
}

func newHandler(prefix, dir string, git bool) handler {
	return handler{
		prefix: prefix,
		dir:    dir,
		git:    git,
	}
}

func (h handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path, err := filepath.Abs(h.prefix)
	if err != nil {
		HttpError(w, http.StatusInternalServerError, errors.Wrap(err, "filepath.Abs("+h.prefix+")"))
		return
	}

	var fs backend.Backend = http.Dir(path)
	if h.git {
		fs, err = openGit(path)
		if err != nil {
			HttpError(w, http.StatusInternalServerError, err)
			return
		}
	}

	w.Header().Set("Cache-Control", "max-age=32")
	backend.NewStaticHandler(fs).Cd(h.dir).ServeHTTP(w, r)
}

func main() {
	prefix := flag.String("prefix", ".", "path to the site or its git repo")
	dir := flag.String("dir", "", "site root relative to prefix, e.g. public")
	addr := flag.String("bind", "localhost:8080", "address or path to bind to")
	network := flag.String("net", "tcp", `"tcp", "tcp4", "tcp6", "unix" or "unixpacket"`)
	git := flag.Bool("git", false, "serve the master branch of the git repo at prefix")
	flag.BoolVar(&DEBUG, "debug", false, "set debug output")
	flag.Parse()
	ln, err := net.Listen(*network, *addr)
	if err != nil {
		panic(err)
	}
	defer ln.Close()
	if strings.HasPrefix(*network, "unix") {
		err = os.Chmod(*addr, 0666)
	}
	if err != nil {
		panic(err)
	}
	log.Println("Starting")
	if DEBUG {
		log.Println("prefix: ", *prefix)
		log.Println("addr: ", *addr)
		log.Println("network: ", *network)
		log.Println("dir: ", *dir)
		log.Println("git: ", *git)
	}
	log.Fatal(http.Serve(ln, compress.New(newHandler(*prefix, *dir, *git))))
}

func init() {
	log.SetFlags(log.Flags() | log.Lshortfile)
}
