package dependencies

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/ti/memberquery/dependencies/database"
	_ "github.com/ti/memberquery/dependencies/database/mock"
	"github.com/ti/memberquery/graceful"
)

// TestInitRequired test required test for init
func TestInitRequired(t *testing.T) {
	type Dep struct {
		Dep1 *dummyDep `required:"true"`
		Dep2 *dummyDep `required:"false"`
		Dep3 *dummyDep
	}
	ctx := context.Background()
	var depTest1 Dep
	err := Init(ctx, &depTest1, map[string]string{
		"dep1": "dummy://localhost/test",
		"dep2": "",
		"dep3": "dummy://localhost/test",
	})
	if err != nil {
		t.Fatalf("init error for %s", err)
	}
	if depTest1.Dep1 == nil || !depTest1.Dep1.data || depTest1.Dep3 == nil || depTest1.Dep2 != nil {
		t.Fatalf("unexpected dependencies %+v", depTest1)
	}
	var depTest2 Dep
	err = Init(ctx, &depTest2, map[string]string{
		"dep1": "",
		"dep2": "dummy://localhost/test",
		"dep3": "dummy://localhost/test",
	})
	if err == nil {
		t.Fatal("return required error is expected")
	}
}

func TestInitDatabase(t *testing.T) {
	type Dep struct {
		Database database.Database
	}
	ctx := context.Background()
	for _, opts := range [][]Option{{WithNewFns(database.New)}, {WithNewFns(database.New), WithSync()}} {
		var dep Dep
		if err := Init(ctx, &dep, map[string]string{"Database": "mock://local/querydsl"}, opts...); err != nil {
			t.Fatalf("init error for %s", err)
		}
		if dep.Database == nil {
			t.Fatal("database is expected")
		}
		if _, err := dep.Database.Count(ctx, database.Join{
			From: database.Table{Name: "member", Alias: "m"},
			To:   database.Table{Name: "team", Alias: "t"},
		}, nil); err != nil {
			t.Fatalf("count error for %s", err)
		}
	}
	graceful.Close()

	var dep Dep
	if err := Init(ctx, &dep, map[string]string{"database": "mock://local/querydsl"}); err == nil {
		t.Fatal("missing new function error is expected")
	}
	if err := Init(ctx, &dep, map[string]string{"database": "unknown://local/querydsl"},
		WithNewFns(database.New)); err == nil {
		t.Fatal("unknown scheme error is expected")
	}
}

func TestInitFailure(t *testing.T) {
	type Dep struct {
		Dep1 *failingDep
	}
	var dep Dep
	err := Init(context.Background(), &dep, map[string]string{"dep1": "dummy://localhost/test"})
	if !errors.Is(err, errDummy) {
		t.Fatalf("dummy error is expected, got %v", err)
	}
	if dep.Dep1 != nil {
		t.Fatal("failed dependency must stay nil")
	}
}

func TestWithNewFnsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("panic is expected")
		}
	}()
	WithNewFns(func(string) error { return nil })
}

type dummyDep struct {
	data bool
}

// Init just implement the init
func (d *dummyDep) Init(_ context.Context, _ *url.URL) error {
	d.data = true
	return nil
}

var errDummy = errors.New("dummy")

type failingDep struct{}

func (d *failingDep) Init(_ context.Context, _ *url.URL) error {
	return errDummy
}
