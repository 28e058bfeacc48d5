// Package mgmt implements an in-process management registry: a catalog of
// named beans that expose typed attributes and invocable operations for
// introspection.
//
// Beans are registered under an ObjectName of the form
//
//	domain:key=value[,key=value...]
//
// and can be looked up with patterns. A pattern either uses a wildcard domain
// ("org.*:name=Kernel") or ends its property list with "*" ("org.neo4j:*",
// "org.neo4j:instance=kernel#0,*"); property values themselves are always
// matched literally.
//
// The registry only stores metadata (BeanInfo) and attribute accessors. It
// never interprets attribute values; tools such as the documentation
// generator read BeanInfo and render it.
//
// Registry is safe for concurrent use.
package mgmt
