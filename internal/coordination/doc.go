// Package coordination talks to the service that decides whether a job needs
// building and records build results.
//
// [New] selects a client by the scheme of the server URL. http and https
// URLs get an [HTTPClient] that POSTs JSON to <url>/check and <url>/results.
// nats URLs get a [NATSClient] that uses request/reply on <prefix>.check and
// publishes results on <prefix>.results, where the prefix is the URL path.
//
// Both clients send the same payloads:
//
//	check:   {"name": "mypkg", "tags": ["go1.25", "base_builder"]}
//	reply:   {"needs_build": true}
//	results: {"client_info": {...}, "results": [...], "tags": [...]}
package coordination
