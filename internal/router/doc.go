// Package router maps request paths to service pools.
//
// Each service owns a URL prefix. A path matches a prefix when it equals
// the prefix or continues it with "/"; the longest matching prefix wins.
// The matched prefix is replaced by the service's rewrite base, which
// defaults to the prefix with the gateway-wide strip prefix removed:
//
//	/api/menu        -> menu  /menu
//	/api/menu/3?x=1  -> menu  /menu/3   (query is carried separately)
//	/api/orders      -> order /orders
//	/api/menuitems   -> no match
package router
