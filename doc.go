// Package truthlinked provides a Go client SDK for the Truthlinked
// Authority Fabric API.
//
// Every request is signed with a key derived from the license key, and
// transient failures are retried with exponential backoff. The license key
// never appears in errors, logs or serialized output.
//
// Basic usage:
//
//	client, err := truthlinked.New(os.Getenv("TRUTHLINKED_LICENSE_KEY"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	health, err := client.Health(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Status:", health.Status)
//
// Errors can be matched with errors.Is against the exported sentinels, or
// inspected with errors.As and *APIError:
//
//	_, err = client.Usage(ctx)
//	var apiErr *truthlinked.APIError
//	if errors.As(err, &apiErr) && apiErr.Kind == truthlinked.KindRateLimitExceeded {
//	    time.Sleep(apiErr.RetryAfter)
//	}
package truthlinked
