// Package dependencies creates the clients of a project from their uri.
package dependencies

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/ti/memberquery/async"
	"github.com/ti/memberquery/graceful"
)

// Init create every nil pointer or interface field of dependenciesPtr from the uri of the
// same name (case insensitive), for example:
//
//	type Dependencies struct {
//		Database database.Database
//	}
//	dependencies.Init(ctx, &deps, map[string]string{"database": "sqlite3://local/members.db"},
//		dependencies.WithNewFns(database.New))
//
// A pointer field whose type has Init(ctx, *url.URL) error is created without a new function.
// Fields are required unless tagged required:"false". The created clients are closed by graceful.
func Init(ctx context.Context, dependenciesPtr any, uris map[string]string, opts ...Option) error {
	o := evaluateOptions(opts)
	dep := reflect.ValueOf(dependenciesPtr)
	if dep.Kind() != reflect.Ptr || dep.Elem().Kind() != reflect.Struct {
		return errors.New("dependencies must be a struct pointer")
	}
	config := make(map[string]string, len(uris))
	for k, v := range uris {
		config[strings.ToLower(k)] = v
	}
	depElem := dep.Elem()
	var future *async.Future
	if !o.sync {
		future = async.New(ctx)
	}
	type pending struct {
		field  reflect.Value
		client *reflect.Value
	}
	var created []pending
	for i := 0; i < depElem.NumField(); i++ {
		f := depElem.Type().Field(i)
		field := depElem.Field(i)
		kind := field.Kind()
		if kind != reflect.Ptr && kind != reflect.Interface {
			return fmt.Errorf("dependency %s 's kind is %s, but expect to pointer or interface", f.Name, kind)
		}
		if !field.IsNil() {
			continue
		}
		uriStr := config[strings.ToLower(f.Name)]
		if uriStr == "" {
			if f.Tag.Get(tagRequired) != "false" {
				return fmt.Errorf("dependency %s is required", f.Name)
			}
			continue
		}
		item := dependency{name: f.Name, typ: f.Type, uri: uriStr}
		if future == nil {
			client, err := initItem(ctx, item, o)
			if err != nil {
				return err
			}
			field.Set(client)
			continue
		}
		out := async.Async(future, func(ctx context.Context, item dependency) (reflect.Value, error) {
			return initItem(ctx, item, o)
		}, item)
		created = append(created, pending{field: field, client: out})
	}
	if future == nil {
		return nil
	}
	if err := future.Await(); err != nil {
		return err
	}
	for _, p := range created {
		p.field.Set(*p.client)
	}
	return nil
}

const tagRequired = "required"

type dependency struct {
	name string
	typ  reflect.Type
	uri  string
}

func initItem(ctx context.Context, item dependency, o *options) (reflect.Value, error) {
	u, err := url.Parse(item.uri)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("dependency %s parse uri error for %w", item.name, err)
	}
	var client reflect.Value
	if c, ok := o.typeCreators[item.typ]; ok {
		client, err = callNew(ctx, c, item.uri, u)
	} else if item.typ.Kind() == reflect.Ptr {
		client, err = initPtr(ctx, item.typ, u)
	} else {
		err = fmt.Errorf("no new function for %s, register one with dependencies.WithNewFns", item.typ)
	}
	if err != nil {
		return reflect.Value{}, fmt.Errorf("init dependency %s by uri %s error for %w", item.name, u.Redacted(), err)
	}
	if closer, ok := client.Interface().(dependencyCloser); ok {
		graceful.AddCloser(closer.Close)
	}
	return client, nil
}

func initPtr(ctx context.Context, typ reflect.Type, u *url.URL) (reflect.Value, error) {
	rv := reflect.New(typ.Elem())
	d, ok := rv.Interface().(dependencyInit)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%s does not implement Init(context.Context, *url.URL) error", typ)
	}
	if err := d.Init(ctx, u); err != nil {
		return reflect.Value{}, err
	}
	return rv, nil
}

func callNew(ctx context.Context, c *creator, uriStr string, u *url.URL) (reflect.Value, error) {
	arg := reflect.ValueOf(u)
	if c.kind == reflect.String {
		arg = reflect.ValueOf(uriStr)
	}
	ret := reflect.ValueOf(c.fn).Call([]reflect.Value{reflect.ValueOf(ctx), arg})
	if errValue := ret[1].Interface(); errValue != nil {
		return reflect.Value{}, errValue.(error)
	}
	return ret[0], nil
}

// dependencyInit just implement init function
type dependencyInit interface {
	Init(ctx context.Context, uri *url.URL) error
}

// dependencyCloser just implement close function
type dependencyCloser interface {
	Close(ctx context.Context) error
}

type options struct {
	typeCreators map[reflect.Type]*creator
	sync         bool
}

type creator struct {
	fn   any
	kind reflect.Kind
}

func evaluateOptions(opts []Option) *options {
	o := &options{typeCreators: make(map[reflect.Type]*creator)}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Option the option for this module.
type Option func(*options)

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	urlType = reflect.TypeOf((*url.URL)(nil))
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// WithNewFns register new functions by their return type, supported signatures:
//
//	func(context.Context, string) (Xxx, error)
//	func(context.Context, *url.URL) (Xxx, error)
func WithNewFns(newFn ...any) Option {
	typeCreators := make(map[reflect.Type]*creator, len(newFn))
	for _, v := range newFn {
		t := reflect.TypeOf(v)
		if t == nil || t.Kind() != reflect.Func || t.NumIn() != 2 || t.NumOut() != 2 ||
			t.In(0) != ctxType || t.Out(1) != errType {
			panic(fmt.Errorf("function %T is not New(context.Context, uri)(Xxx, error)", v))
		}
		var kind reflect.Kind
		switch {
		case t.In(1).Kind() == reflect.String:
			kind = reflect.String
		case t.In(1) == urlType:
			kind = reflect.Ptr
		default:
			panic(fmt.Errorf("function %T takes neither a string nor a *url.URL", v))
		}
		typeCreators[t.Out(0)] = &creator{fn: v, kind: kind}
	}
	return func(o *options) {
		for k, v := range typeCreators {
			o.typeCreators[k] = v
		}
	}
}

// WithSync init dependencies one by one
func WithSync() Option {
	return func(o *options) {
		o.sync = true
	}
}
