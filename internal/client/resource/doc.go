// Package resource provides the generic typed client over one REST
// collection.
//
// A Client[R] maps List, Get, Create, Update and Remove onto
//
//	GET    <path>?<filters>
//	GET    <path>/<id>
//	POST   <path>
//	PUT    <path>/<id>
//	DELETE <path>/<id>
//
// Every operation is exactly one round trip through a transport.Doer. There
// are no retries and no caching; failures surface as the transport's
// *transport.Fault (wrapped) after the global interpreter has seen them.
package resource
