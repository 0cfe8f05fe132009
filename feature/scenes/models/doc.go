// Package models holds the scene tables and the request and report types of
// the scenes API.
package models
