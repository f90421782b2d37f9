package analyzer

import (
	"fmt"
	"sync"

	"github.com/toyz/ngcc/internal/annotations"
	"github.com/toyz/ngcc/internal/errors"
	"github.com/toyz/ngcc/internal/host"
)

// Detection is a handler that claimed a class together with the decorator it matched
type Detection struct {
	Handler   annotations.Handler
	Decorator *host.Decorator
}

// HandlerRegistry holds the decorator handlers of one compilation run in a fixed order
type HandlerRegistry struct {
	mu       sync.RWMutex          // Protects handler list during registration
	handlers []annotations.Handler // Detection order
	names    map[string]bool       // Registered handler names
}

// NewHandlerRegistry creates a registry with the given handlers in detection order
func NewHandlerRegistry(handlers ...annotations.Handler) (*HandlerRegistry, error) {
	r := &HandlerRegistry{names: make(map[string]bool)}
	for _, h := range handlers {
		if err := r.Register(h); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends a handler to the detection order
func (r *HandlerRegistry) Register(handler annotations.Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}
	name := handler.Name()
	if name == "" {
		return fmt.Errorf("handler name cannot be empty")
	}
	if r.names[name] {
		return fmt.Errorf("handler %s is already registered", name)
	}

	r.names[name] = true
	r.handlers = append(r.handlers, handler)
	return nil
}

// Handlers returns the registered handlers in detection order
func (r *HandlerRegistry) Handlers() []annotations.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handlers := make([]annotations.Handler, len(r.handlers))
	copy(handlers, r.handlers)
	return handlers
}

// Detect asks every handler whether it claims class. No detection means the
// class is inert; more than one is an AmbiguousAnnotationError.
func (r *HandlerRegistry) Detect(class *host.DecoratedClass) (*Detection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Detection
	for _, h := range r.handlers {
		if d := h.Detect(class.Decorators); d != nil {
			matches = append(matches, Detection{Handler: h, Decorator: d})
		}
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Handler.Name()
		}
		return nil, errors.NewAmbiguousAnnotationError(class.Name, names, class.Declaration.Location())
	}
}
