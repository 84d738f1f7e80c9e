// Package model defines the catalog's domain entity, request bodies and
// error representation.
//
// # Book
//
// Book is the only entity. Its id is serialized as "_id" for the bundled UI:
//
//	type Book struct {
//	    ID              string    `json:"_id"`
//	    Title           string    `json:"title"`
//	    PublishedYear   int       `json:"publishedYear"`
//	    AvailableCopies int       `json:"availableCopies"`
//	    ...
//	}
//
// # Coercion and Validation
//
// Request bodies keep their fields as json.RawMessage. NumberOf, StringOf and
// Truthy apply browser-style coercion, BookRequest.Fields turns a request into
// BookFields and BookFields.Validate enforces the schema independently of
// any store:
//
//	fields, errs := req.Fields()
//	errs = append(errs, fields.Validate()...)
//	if len(errs) == 0 {
//	    fields.Apply(&book)
//	}
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go. Every problem also
// carries a "message" member with the human-readable text.
package model
