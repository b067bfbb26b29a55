package host

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iowanobos/kafka-priority/queue"
)

const ProtoID = "PriorityQueue"

// ErrUnknownMethod is returned by Send for a method the object does not respond to.
var ErrUnknownMethod = errors.New("host: unknown method")

type nilObject struct{}

func (nilObject) String() string { return "nil" }

// Nil is what pop answers when the queue is empty.
var Nil any = nilObject{}

// State owns the prototype every queue object is cloned from and keeps every
// object it created by id.
type State struct {
	proto   *Object
	objects map[uuid.UUID]*Object
	log     *logrus.Entry
}

func NewState(log *logrus.Entry) (*State, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	data, err := queue.New[any](queue.DefaultCapacity)
	if err != nil {
		return nil, err
	}

	s := &State{
		objects: make(map[uuid.UUID]*Object),
		log:     log,
	}
	s.proto = s.register(data)
	log.WithFields(logrus.Fields{
		"proto": ProtoID,
		"id":    s.proto.id,
	}).Debug("proto registered")
	return s, nil
}

// Proto returns the registered prototype.
func (s *State) Proto() *Object {
	return s.proto
}

// New clones the prototype.
func (s *State) New() *Object {
	return s.proto.Clone()
}

// Lookup returns the object registered under id.
func (s *State) Lookup(id uuid.UUID) (*Object, bool) {
	o, ok := s.objects[id]
	return o, ok
}

// Len returns the number of registered objects, the prototype included.
func (s *State) Len() int {
	return len(s.objects)
}

func (s *State) register(data *queue.Queue[any]) *Object {
	id := uuid.New()
	o := &Object{
		id:    id,
		state: s,
		data:  data,
		log:   s.log.WithField("object", id),
	}
	s.objects[id] = o
	return o
}

// Object is a queue as seen by the host: a named receiver of messages.
type Object struct {
	id    uuid.UUID
	state *State
	data  *queue.Queue[any]
	dirty bool
	log   *logrus.Entry
}

func (o *Object) ID() uuid.UUID { return o.id }

// Dirty reports whether the object was mutated since it was created or cloned.
func (o *Object) Dirty() bool { return o.dirty }

// Clone returns a new object with an independent copy of the queue.
// Stored values are shared with o.
func (o *Object) Clone() *Object {
	c := o.state.register(o.data.Clone())
	o.log.WithField("clone", c.id).Debug("object cloned")
	return c
}

type method func(o *Object, args []any) (any, error)

var methods = map[string]method{
	"with":  (*Object).with,
	"push":  (*Object).push,
	"pop":   (*Object).pop,
	"size":  (*Object).size,
	"clone": (*Object).clone,
}

// Send dispatches a message to the object by name.
func (o *Object) Send(name string, args ...any) (any, error) {
	m, ok := methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownMethod, ProtoID, name)
	}

	result, err := m(o, args)
	if err != nil {
		o.log.WithError(err).WithField("method", name).Debug("message failed")
		return nil, err
	}
	return result, nil
}

func (o *Object) with(args []any) (any, error) {
	if len(args) != 1 {
		return nil, arityError("with", 1, len(args))
	}
	capacity, err := intArg("with", args, 0)
	if err != nil {
		return nil, err
	}
	if err = o.data.Reserve(capacity); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Object) push(args []any) (any, error) {
	if len(args) != 2 {
		return nil, arityError("push", 2, len(args))
	}
	priority, err := intArg("push", args, 1)
	if err != nil {
		return nil, err
	}
	if err = o.data.Push(args[0], priority); err != nil {
		return nil, err
	}
	o.dirty = true
	return o, nil
}

func (o *Object) pop(args []any) (any, error) {
	if len(args) != 0 {
		return nil, arityError("pop", 0, len(args))
	}
	value, ok := o.data.Pop()
	if !ok {
		return Nil, nil
	}
	o.dirty = true
	return value, nil
}

func (o *Object) size(args []any) (any, error) {
	if len(args) != 0 {
		return nil, arityError("size", 0, len(args))
	}
	return o.data.Len(), nil
}

func (o *Object) clone(args []any) (any, error) {
	if len(args) != 0 {
		return nil, arityError("clone", 0, len(args))
	}
	return o.Clone(), nil
}

func arityError(name string, want, got int) error {
	return fmt.Errorf("%w: %s %s() requires %d arguments, got %d", queue.ErrInvalidArgument, ProtoID, name, want, got)
}

// intArg reads an integer argument. Floats are truncated toward zero and must
// fit in an int once truncated.
func intArg(name string, args []any, i int) (int, error) {
	switch v := args[i].(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %s %s() argument %d must be finite, got %v", queue.ErrInvalidArgument, ProtoID, name, i, v)
		}
		t := math.Trunc(v)
		if t < float64(math.MinInt) || t >= -float64(math.MinInt) {
			return 0, fmt.Errorf("%w: %s %s() argument %d is out of range, got %v", queue.ErrInvalidArgument, ProtoID, name, i, v)
		}
		return int(t), nil
	default:
		return 0, fmt.Errorf("%w: %s %s() argument %d must be a number, got %T", queue.ErrInvalidArgument, ProtoID, name, i, args[i])
	}
}
