package queries

import (
	"io/fs"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

var namedArg = regexp.MustCompile(`@[a-z_]+`)

func TestQueryHelper_EveryPathResolvesToAQuery(t *testing.T) {
	paths := collectQueryPaths(reflect.ValueOf(QueryHelper))
	if len(paths) == 0 {
		t.Fatal("no query paths in QueryHelper found")
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			if content := Get(path); strings.TrimSpace(content) == "" {
				t.Errorf("query file %q is empty", path)
			}
		})
	}

	// every embedded .sql file must be reachable from QueryHelper, 1:1
	count := 0
	err := fs.WalkDir(Files, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("error walking embedded queries: %v", err)
	}

	if count != len(paths) {
		t.Fatalf("number of embedded .sql files does not match number of query paths in QueryHelper (%d != %d)", count, len(paths))
	}
}

func TestQueryHelper_DataQueriesAreParameterised(t *testing.T) {
	// read across every user by the alert scheduler
	global := map[string]bool{QueryHelper.Select.ActiveAlerts: true}

	for _, path := range collectQueryPaths(reflect.ValueOf(QueryHelper)) {
		if strings.HasPrefix(path, "create/") || global[path] {
			continue
		}
		if !namedArg.MatchString(Get(path)) {
			t.Errorf("query %q has no named arguments", path)
		}
	}
}

func TestQueryHelper_GlobalQueriesTakeNoUser(t *testing.T) {
	if q := Get(QueryHelper.Select.ActiveAlerts); strings.Contains(q, "@user_id") || !strings.Contains(q, "active = TRUE") {
		t.Fatalf("active alerts query must select active alerts of every user, got %q", q)
	}
}

func TestQueryHelper_CreateCoversEveryTable(t *testing.T) {
	ddl := Get(QueryHelper.Create.Tables)
	for _, table := range []string{"users", "watchlist", "portfolio", "notifications", "alerts"} {
		if !strings.Contains(ddl, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Errorf("create script is missing table %s", table)
		}
	}
}

// collectQueryPaths walks v (a struct) and returns every non empty string field
func collectQueryPaths(v reflect.Value) (paths []string) {
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)

		if field.Kind() == reflect.String {
			if s := field.String(); s != "" {
				paths = append(paths, s)
			}
		} else {
			paths = append(paths, collectQueryPaths(field)...)
		}
	}
	return
}
