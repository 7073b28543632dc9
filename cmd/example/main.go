package main

import (
	"context"
	"fmt"
	"log"

	"github.com/fulldump/goconfig"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/cellbase/pkg/cellbase"
)

type config struct {
	Dir      string `usage:"directory of the workbook"`
	Filename string `usage:"workbook filename"`
}

type User struct {
	ID    int    `cellbase:"id"`
	Name  string `cellbase:"name"`
	Email string `cellbase:"email"`
	Row   int    `cellbase:"row_idx"`
}

func main() {
	c := config{
		Dir:      ".",
		Filename: "example.xlsx",
	}
	goconfig.Read(&c)

	ctx := context.Background()

	cb, err := cellbase.NewLocal(cellbase.LocalConfig{
		Dir:      c.Dir,
		Filename: c.Filename,
	})
	if err != nil {
		log.Fatalf("Failed to load workbook: %v", err)
	}

	cb.Register(map[string][]string{
		"Users": {"id", "name", "email"},
	})

	users := cellbase.NewDAO(cb, "Users")

	for _, u := range []User{
		{ID: 1, Name: "Alice", Email: "alice@example.com"},
		{ID: 2, Name: "Bob", Email: "bob@example.com"},
	} {
		if _, err := users.Insert(ctx, &u); err != nil {
			log.Fatalf("Failed to insert user: %v", err)
		}
	}

	var found []User
	err = users.Query(ctx, cellbase.Where{
		"id": cellbase.Predicate(func(v interface{}) bool {
			id, ok := v.(int)
			return ok && id >= 1
		}),
	}, &found)
	if err != nil {
		log.Fatalf("Failed to query users: %v", err)
	}

	fmt.Printf("Found %d users:\n", len(found))
	for _, u := range found {
		fmt.Printf("  - row %d: %s (%s)\n", u.Row, u.Name, u.Email)
	}

	_, err = users.Format(ctx, &cellbase.LocalFormatter{
		Font: &excelize.Font{Bold: true},
	}, cellbase.Where{"id": 1})
	if err != nil {
		log.Fatalf("Failed to format: %v", err)
	}

	if err := cb.Save(ctx); err != nil {
		log.Fatalf("Failed to save workbook: %v", err)
	}
}
