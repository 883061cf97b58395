// Command gymctl is a terminal client for the trainer-link API.
//
//	gymctl key normalize "abcd efgh"
//	gymctl key generate -n 3
//	gymctl key validate abcd-efgh
//	gymctl signin -email coach@example.com
//	gymctl whoami
//	gymctl exercises -search remada -pages 2
//	gymctl signout
//
// The API root comes from -api or GYMCTL_API (default
// http://localhost:8080/api/v1).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "gymctl:", err)
		os.Exit(1)
	}
}
