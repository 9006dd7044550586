// Package mock provides an in-memory mock database implementation for testing.
//
// Mock implements the database.Database interface over tables held in memory, the join,
// the conditions, the ordering and the paging are evaluated in Go.
//
// URL Format:
//
//	mock://host/database_name
//
// Basic Usage:
//
//	db, err := mock.New(ctx, "mock://local/testdb")
//	if err != nil {
//	    panic(err)
//	}
//	defer db.Close(ctx)
//
//	_, _ = db.Insert(ctx, "team", []*Team{{ID: 1, Name: "teamA"}})
//	_, _ = db.Insert(ctx, "member", []*Member{{ID: 1, Username: "member1", Age: 10, TeamID: 1}})
//
//	n, err := db.Count(ctx, join, database.C{{Key: "m.age", Value: 10, C: database.Gte}})
//
// Stats reports how many content and count queries were served, tests use it to assert
// a count query was skipped.
package mock
