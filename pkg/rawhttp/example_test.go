package rawhttp_test

import (
	"context"
	"fmt"
	"log"

	"github.com/WhileEndless/go-sockhttp/pkg/rawhttp"
)

func ExampleClient() {
	client, err := rawhttp.NewClient("https://example.com", rawhttp.Options{})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := client.Connect(ctx); err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect()

	client.SetHeader("User-Agent", "example")

	resp, err := client.Get(ctx, "/")
	if err != nil {
		log.Fatal(err)
	}

	body, err := resp.Text("utf-8")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(resp.StatusCode, len(body))
}

func ExampleConnection_Receive() {
	conn, err := rawhttp.NewConnection("http://example.com", rawhttp.Options{})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := conn.Connect(ctx); err != nil {
		log.Fatal(err)
	}
	defer conn.Disconnect()

	// Bytes that arrive before Receive subscribes are queued, not lost.
	if err := conn.Send([]byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n")); err != nil {
		log.Fatal(err)
	}

	resp, err := conn.Receive(ctx, "GET")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(resp.StatusCode, resp.Truncated())
}
