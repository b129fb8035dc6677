// package models defines the data model for the live ops automation service
package models
