/*
Package queue defines the tasks performed to grow a tree
concurrently as well as an interface for a Queue to manage them.

It also provides an in-memory implementation of the Queue interface
*/
package queue
