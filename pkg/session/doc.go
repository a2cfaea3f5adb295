/*
Package session serializes access to stored navigator sessions.

Each session id gets a reference-counted mutex for the lifetime of the calls
touching it. When several API replicas share a store, a ports.DistributedLocker
(Redis SET NX) is taken as well.
*/
package session
