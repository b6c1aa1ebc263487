// Package catalog provides the client side of the product catalog API.
//
// Every operation is forwarded as a single call to the backing catalog. The
// Remote client talks to the Fake Store REST API over HTTP; the storage
// packages provide offline implementations of the same Client interface.
package catalog
