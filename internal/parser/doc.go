// Package parser reads and writes translation files: JSON objects of
// objects that may carry // line comments outside string literals.
//
//	{
//	  "greeting": {
//	    "en": "Hello",
//	    "fr": "Bonjour" // translator note
//	  }
//	}
//
// Load strips comments, decodes into an order-preserving Value and builds
// a table.Table; Serialize writes the table back without comments.
package parser
