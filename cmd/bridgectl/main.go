package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/fs-bridge/bridge"
	"github.com/wippyai/fs-bridge/resource"
	"github.com/wippyai/fs-bridge/vfs"
	"github.com/wippyai/fs-bridge/vpath"
)

func main() {
	var (
		backend     = flag.String("backend", "memory", "Storage backend: memory, sqlite, dir")
		dbPath      = flag.String("db", "", "SQLite database path (backend=sqlite)")
		rootDir     = flag.String("root", "", "Host directory backing the sandbox (backend=dir)")
		home        = flag.String("home", "", "Sandbox home directory (default /var/mobile)")
		lsPath      = flag.String("ls", "", "List the directory at the given sandbox path")
		treePath    = flag.String("tree", "", "List the subtree under the given sandbox path")
		catPath     = flag.String("cat", "", "Print the file at the given sandbox path")
		writePath   = flag.String("write", "", "Create a file at the given sandbox path")
		writeData   = flag.String("data", "", "Content for -write")
		mkdirPath   = flag.String("mkdir", "", "Create a directory at the given sandbox path")
		rmPath      = flag.String("rm", "", "Remove the file or empty directory at the given sandbox path")
		statPath    = flag.String("stat", "", "Show attributes of the item at the given sandbox path")
		verbose     = flag.Bool("v", false, "Verbose bridge logging")
		interactive = flag.Bool("i", false, "Interactive sandbox browser")
	)
	flag.Parse()

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		bridge.SetLogger(log)
		defer log.Sync()
	}

	mgr, closeStore, err := openManager(*backend, *dbPath, *rootDir, *home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(mgr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(mgr, *lsPath, *treePath, *catPath, *writePath, *writeData, *mkdirPath, *rmPath, *statPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openManager(backend, dbPath, rootDir, home string) (*bridge.Manager, func(), error) {
	var opts *vfs.Options
	if home != "" {
		opts = &vfs.Options{Home: home}
	}

	noop := func() {}
	switch backend {
	case "memory":
		return bridge.New(vfs.NewMemFS(opts)), noop, nil

	case "sqlite":
		if dbPath == "" {
			dbPath = ":memory:"
		}
		store, err := vfs.NewSQLiteFS(dbPath, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return bridge.New(store), func() { store.Close() }, nil

	case "dir":
		if rootDir == "" {
			return nil, nil, fmt.Errorf("backend=dir needs -root")
		}
		store, err := vfs.NewHostDirFS(rootDir, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("open dir backend: %w", err)
		}
		return bridge.New(store), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backend)
	}
}

func run(mgr *bridge.Manager, lsPath, treePath, catPath, writePath, writeData, mkdirPath, rmPath, statPath string) error {
	defer mgr.Pool().Drain()

	ran := false

	if mkdirPath != "" {
		ran = true
		ok, err := mgr.CreateDirectory(pathHandle(mgr, mkdirPath), true, 0, 0)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("mkdir %s failed", mkdirPath)
		}
		fmt.Printf("created %s\n", mkdirPath)
	}

	if writePath != "" {
		ran = true
		contents := mgr.Proxies().Add(bridge.NewBlobProxy([]byte(writeData)))
		ok, err := mgr.CreateFile(pathHandle(mgr, writePath), contents, 0)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("write %s failed", writePath)
		}
		fmt.Printf("wrote %s (%d bytes)\n", writePath, len(writeData))
	}

	if rmPath != "" {
		ran = true
		ok, err := mgr.RemoveItem(pathHandle(mgr, rmPath), 0)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("rm %s failed", rmPath)
		}
		fmt.Printf("removed %s\n", rmPath)
	}

	if catPath != "" {
		ran = true
		h, err := mgr.ContentsAtPath(pathHandle(mgr, catPath))
		if err != nil {
			return err
		}
		if h == 0 {
			return fmt.Errorf("cat %s failed", catPath)
		}
		data, _ := mgr.Proxies().Blob(h)
		os.Stdout.Write(data)
	}

	if statPath != "" {
		ran = true
		h := mgr.AttributesOfItem(pathHandle(mgr, statPath), 0)
		p, ok := mgr.Proxies().GetKind(h, bridge.ProxyDict)
		if !ok {
			return fmt.Errorf("stat %s failed", statPath)
		}
		if size, ok := p.(*bridge.DictProxy).Get(bridge.AttrFileSize); ok {
			fmt.Printf("%s\t%v bytes\n", statPath, size)
		}
	}

	if lsPath != "" {
		ran = true
		if err := list(mgr, lsPath, false); err != nil {
			return err
		}
	}

	if treePath != "" {
		ran = true
		if err := list(mgr, treePath, true); err != nil {
			return err
		}
	}

	if !ran {
		return summary(mgr)
	}
	return nil
}

func list(mgr *bridge.Manager, path string, recursive bool) error {
	if recursive {
		enum := mgr.EnumeratorAtPath(pathHandle(mgr, path))
		if enum == 0 {
			return fmt.Errorf("enumerate %s failed", path)
		}
		for {
			h := mgr.NextObject(enum)
			if h == 0 {
				return nil
			}
			entry, _ := mgr.Proxies().String(h)
			fmt.Println(entry)
		}
	}

	h := mgr.DirectoryContents(pathHandle(mgr, path))
	if h == 0 {
		return fmt.Errorf("list %s failed", path)
	}
	p, ok := mgr.Proxies().GetKind(h, bridge.ProxyStringList)
	if !ok {
		return fmt.Errorf("list %s failed", path)
	}
	for _, entry := range p.(*bridge.StringListProxy).Values() {
		fmt.Println(entry)
	}
	return nil
}

// summary prints the resolved well-known sandbox locations.
func summary(mgr *bridge.Manager) error {
	str := func(h resource.Handle) string {
		s, _ := mgr.Proxies().String(h)
		return s
	}

	fmt.Printf("Home:      %s\n", str(mgr.HomeDirectory()))
	fmt.Printf("Temporary: %s\n", str(mgr.TemporaryDirectory()))
	fmt.Printf("Working:   %s\n", str(mgr.CurrentDirectoryPath()))

	domains := map[string]vpath.Domain{
		"Applications":        vpath.DomainApplication,
		"Documents":           vpath.DomainDocument,
		"Application Support": vpath.DomainApplicationSupport,
	}
	names := make([]string, 0, len(domains))
	for name := range domains {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("\nSearch paths:\n")
	for _, name := range names {
		h, err := mgr.SearchPathForDirectoriesInDomains(domains[name], vpath.UserDomainMask, true)
		if err != nil {
			return err
		}
		p, ok := mgr.Proxies().GetKind(h, bridge.ProxyStringList)
		if !ok {
			continue
		}
		fmt.Printf("  %-20s %s\n", name, strings.Join(p.(*bridge.StringListProxy).Values(), ", "))
	}
	return nil
}

func pathHandle(mgr *bridge.Manager, path string) resource.Handle {
	return mgr.PathHandle(path)
}
