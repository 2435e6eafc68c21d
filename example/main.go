// Command example queries a few Old Swedish dictionaries on the public Karp API
// and prints the hits as a table.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	karp "github.com/spraakbanken/karp-client-go"
	"github.com/spraakbanken/karp-client-go/dsl"
	"github.com/spraakbanken/karp-client-go/models"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	client := karp.New(karp.Options{
		Timeout: 30 * time.Second,
		Logger:  &logger,
	})

	q := dsl.NewEquals("baseform", "agha").Or(dsl.NewEquals("baseform", "agin"))
	resp, err := client.Query(context.Background(), []string{"schlyter,soederwall,soederwall-supp"}, &karp.QueryOptions{
		Q:    q,
		Size: 25,
	})
	if err != nil {
		fmt.Printf("Error occurred!\n%v\n", err)
		os.Exit(1)
	}
	printTable(resp.Parsed)
}

func printTable(r *models.QueryResponse) {
	if r == nil {
		fmt.Println("No response")
		return
	}

	fmt.Printf("%-20s%-20sentry\n", "baseform", "resource")
	for _, hit := range r.Hits {
		entry, err := json.Marshal(hit)
		if err != nil {
			entry = []byte(err.Error())
		}
		fmt.Printf("%-20v%-20s%s\n", hit.Entry["baseform"], hit.Resource, entry)
	}
	fmt.Println("---")
	fmt.Printf("showing %d entries of %d in total.\n", len(r.Hits), r.Total)
}
