package link

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// Config holds the settings a driver is opened with.
type Config struct {
	// Listen is the local address to bind or serve on.
	Listen string
	// Peer is the address of the other board. Drivers that can learn the
	// peer from its first message accept an empty Peer.
	Peer string
	// Buffer is the inbound queue size; zero means DefaultBuffer.
	Buffer int
	// Logger receives driver diagnostics; nil discards them.
	Logger *log.Logger
}

// DriverInfo describes a registered driver.
type DriverInfo struct {
	Name        string
	Description string
}

// Factory opens a connection for a driver.
type Factory func(cfg Config) (Conn, error)

type driver struct {
	open Factory
	desc string
}

var (
	drivers = make(map[string]driver)
	mu      sync.RWMutex
)

// Register adds a driver. Drivers register themselves from init().
// Panics if the name is already taken.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := drivers[name]; exists {
		panic(fmt.Sprintf("link: driver %q already registered", name))
	}
	drivers[name] = driver{open: f, desc: description}
}

// Drivers returns every registered driver, sorted by name.
func Drivers() []DriverInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]DriverInfo, 0, len(drivers))
	for name, d := range drivers {
		result = append(result, DriverInfo{Name: name, Description: d.desc})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Exists checks if a driver with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := drivers[name]
	return ok
}

// Open connects using the named driver.
func Open(name string, cfg Config) (Conn, error) {
	mu.RLock()
	d, ok := drivers[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("link: unknown driver %q", name)
	}
	conn, err := d.open(cfg)
	if err != nil {
		return nil, fmt.Errorf("link: open %s: %w", name, err)
	}
	return conn, nil
}
