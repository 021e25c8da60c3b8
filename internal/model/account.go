package model

import "database/sql"

// Account represents a registered user record as stored in the
// `accounts` table. Each field corresponds to a column in the
// database. The json tags are omitted because these structs are
// used internally by the repository layer; handlers define
// separate response types with appropriate JSON tags.
//
// Fields:
//  ID          – primary key identifier assigned by the store.
//  Name        – full display name (first and last combined).
//  Email       – unique, lowercased email address.
//  Phone       – contact phone number.
//  DateOfBirth – birth date in YYYY-MM-DD format.
//  Password    – stored credential secret. For accounts created by
//                this service it is a hex-encoded bcrypt hash;
//                legacy rows may still hold plaintext until the
//                first successful login upgrades them.
//  LastLogin   – timestamp of the most recent successful login
//                (nullable, updated best-effort).
type Account struct {
	ID          uint64       // accounts.id
	Name        string       // accounts.name
	Email       string       // accounts.email
	Phone       string       // accounts.phone
	DateOfBirth string       // accounts.date_of_birth
	Password    string       // accounts.password
	LastLogin   sql.NullTime // accounts.last_login (nullable)
}
