package keyspace

import (
	"sort"
	"time"
)

// Position selects which end of a list Push inserts at.
type Position string

const (
	Start Position = "start"
	End   Position = "end"
)

// callArgs collects the per-call options before a command model validates
// them. Commands recognize a fixed subset; anything outside it fails
// validation.
type callArgs struct {
	pre, ver  string
	ttl       time.Duration
	ttlSet    bool
	xx        bool
	keepTTL   bool
	insert    Position
	insertSet bool
}

// CallOption configures a single operation invocation.
type CallOption func(*callArgs)

// Pre overrides the instance prefix for this call only. An empty value falls
// back to the instance prefix.
func Pre(pre string) CallOption {
	return func(a *callArgs) { a.pre = pre }
}

// Ver overrides the instance version for this call only. An empty value
// falls back to the instance version.
func Ver(ver string) CallOption {
	return func(a *callArgs) { a.ver = ver }
}

// TTL overrides the default expiration for this write.
func TTL(ttl time.Duration) CallOption {
	return func(a *callArgs) {
		a.ttl = ttl
		a.ttlSet = true
	}
}

// XX makes Set write only if the key already exists.
func XX() CallOption {
	return func(a *callArgs) { a.xx = true }
}

// KeepTTL makes Set retain the expiration already on the key.
func KeepTTL() CallOption {
	return func(a *callArgs) { a.keepTTL = true }
}

// Insert selects the list end Push inserts at; End is the default.
func Insert(pos Position) CallOption {
	return func(a *callArgs) {
		a.insert = pos
		a.insertSet = true
	}
}

func applyOpts(opts []CallOption) callArgs {
	var a callArgs
	for _, opt := range opts {
		if opt != nil {
			opt(&a)
		}
	}
	return a
}

// recognized names the option subset a command accepts.
type recognized struct {
	ttl      bool
	setFlags bool
	insert   bool
}

func (a callArgs) recognize(cmd string, r recognized) error {
	if a.ttlSet && !r.ttl {
		return NewValidationError("The ttl option cannot be used with " + cmd + ".")
	}
	if (a.xx || a.keepTTL) && !r.setFlags {
		return NewValidationError("The xx and keepttl options can only be used with set.")
	}
	if a.insertSet {
		if !r.insert {
			return NewValidationError("The insert option can only be used with push.")
		}
		if a.insert != Start && a.insert != End {
			return NewChoicesError(string(Start), string(End))
		}
	}
	return nil
}

func requireKey(key string) error {
	if key == "" {
		return NewValidationError("Key must not be empty.")
	}
	return nil
}

type setModel struct {
	callArgs
	key string
	val []byte
}

func newSetModel(key string, val any, opts []CallOption) (*setModel, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}
	a := applyOpts(opts)
	if err := a.recognize("set", recognized{ttl: true, setFlags: true}); err != nil {
		return nil, err
	}
	raw, err := encodeValue(val)
	if err != nil {
		return nil, err
	}
	return &setModel{callArgs: a, key: key, val: raw}, nil
}

type getModel struct {
	callArgs
	key string
}

// newGetModel also serves hget, llen and ttl; they share the read-only
// option surface.
func newGetModel(cmd, key string, opts []CallOption) (*getModel, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}
	a := applyOpts(opts)
	if err := a.recognize(cmd, recognized{}); err != nil {
		return nil, err
	}
	return &getModel{callArgs: a, key: key}, nil
}

type hsetModel struct {
	callArgs
	key    string
	fields []FieldValue
}

func newHSetModel(key, field string, val any, opts []CallOption) (*hsetModel, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}
	if field == "" {
		return nil, NewValidationError("Field must not be empty.")
	}
	a := applyOpts(opts)
	if err := a.recognize("hset", recognized{ttl: true}); err != nil {
		return nil, err
	}
	raw, err := encodeValue(val)
	if err != nil {
		return nil, err
	}
	return &hsetModel{callArgs: a, key: key, fields: []FieldValue{{Field: field, Value: raw}}}, nil
}

// newHMSetModel normalizes a mapping into ordered fields. Iteration order of
// the input map is not stable, so fields are sorted by name to keep the
// store calls deterministic.
func newHMSetModel(key string, mapping map[string]any, opts []CallOption) (*hsetModel, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}
	a := applyOpts(opts)
	if err := a.recognize("hmset", recognized{ttl: true}); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(mapping))
	for name := range mapping {
		if name == "" {
			return nil, NewValidationError("Field must not be empty.")
		}
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]FieldValue, 0, len(names))
	for _, name := range names {
		raw, err := encodeValue(mapping[name])
		if err != nil {
			return nil, err
		}
		fields = append(fields, FieldValue{Field: name, Value: raw})
	}
	return &hsetModel{callArgs: a, key: key, fields: fields}, nil
}

type hmgetModel struct {
	callArgs
	key string
	// fields nil means fetch the whole hash; an explicit empty slice is
	// short-circuited by the client before a model is even built.
	fields []string
}

func newHMGetModel(key string, fields []string, opts []CallOption) (*hmgetModel, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}
	a := applyOpts(opts)
	if err := a.recognize("hmget", recognized{}); err != nil {
		return nil, err
	}
	for _, f := range fields {
		if f == "" {
			return nil, NewValidationError("Field must not be empty.")
		}
	}
	return &hmgetModel{callArgs: a, key: key, fields: fields}, nil
}

type hdelModel struct {
	callArgs
	key    string
	fields []string
}

func newHDelModel(key string, fields []string, opts []CallOption) (*hdelModel, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, NewValidationError("Fields must not be empty.")
	}
	a := applyOpts(opts)
	if err := a.recognize("hdel", recognized{}); err != nil {
		return nil, err
	}
	for _, f := range fields {
		if f == "" {
			return nil, NewValidationError("Field must not be empty.")
		}
	}
	return &hdelModel{callArgs: a, key: key, fields: fields}, nil
}

type keysModel struct {
	callArgs
	keys []string
}

// newKeysModel serves delete and exists, whose input is a batch of base
// keys. Each key is composed independently against the same overrides.
func newKeysModel(cmd string, keys []string, opts []CallOption) (*keysModel, error) {
	if len(keys) == 0 {
		return nil, NewValidationError("Keys must not be empty.")
	}
	a := applyOpts(opts)
	if err := a.recognize(cmd, recognized{}); err != nil {
		return nil, err
	}
	for _, k := range keys {
		if k == "" {
			return nil, NewValidationError("Key must not be empty.")
		}
	}
	return &keysModel{callArgs: a, keys: keys}, nil
}

type pushModel struct {
	callArgs
	key  string
	vals [][]byte
}

func newPushModel(key string, vals []any, opts []CallOption) (*pushModel, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, NewValidationError("Values must not be empty.")
	}
	a := applyOpts(opts)
	if err := a.recognize("push", recognized{ttl: true, insert: true}); err != nil {
		return nil, err
	}
	if !a.insertSet {
		a.insert = End
	}
	raws := make([][]byte, 0, len(vals))
	for _, v := range vals {
		raw, err := encodeValue(v)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return &pushModel{callArgs: a, key: key, vals: raws}, nil
}
