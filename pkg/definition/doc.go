// Package definition loads declarative entity definitions and compiles
// them into store configurations.
//
// A definitions file is YAML or JSON:
//
//	baseUrl: ${API_URL:-http://localhost:4280}
//	entities:
//	  users:
//	    route: /api/users/
//	    includeRecord: true
//	    actions:
//	      getList: {responsePath: "$.data"}
//	      update: {method: put}
//	      delete: true
//	    customActions:
//	      activate:
//	        method: post
//	        routeExpr: '"/api/users/" + string(record.id) + "/activate/"'
//
// Documents are validated against an embedded JSON Schema before decoding.
// Environment references of the form ${VAR} and ${VAR:-default} are
// expanded first.
//
// Expressions use expr-lang syntax. Route expressions see record, args and
// params; body expressions see record and body. A responsePath is a
// JSONPath applied to the response data; a single match is unwrapped.
package definition
