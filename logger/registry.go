package logger

import (
	"sync"
)

// Component names of the loggers reducekit packages ask for.
const (
	ComponentTransduce = "transduce"
	ComponentPipeline  = "pipeline"
	ComponentConfig    = "config"
	ComponentRedis     = "redissink"
	ComponentKafka     = "kafkasink"
	ComponentS3        = "s3sink"
)

var registry = &componentRegistry{entries: make(map[string]entry)}

type entry struct {
	log     *Logger
	derived bool
}

// componentRegistry hands out one logger per component. Loggers derived from
// the global logger are dropped when it changes; registered ones are kept.
type componentRegistry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// Register pins the logger returned by Get(name), overriding the default
// component logger.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.entries[name] = entry{log: l}
}

// Get returns the logger for component name: the registered one, or the
// global logger tagged with the component.
func Get(name string) *Logger {
	registry.mu.RLock()
	e, ok := registry.entries[name]
	registry.mu.RUnlock()
	if ok {
		return e.log
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if e, ok := registry.entries[name]; ok {
		return e.log
	}
	l := GetGlobalLogger().WithComponent(name)
	registry.entries[name] = entry{log: l, derived: true}
	return l
}

func (r *componentRegistry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, e := range r.entries {
		if e.derived {
			delete(r.entries, name)
		}
	}
}
