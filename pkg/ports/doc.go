/*
Package ports defines the driven ports (interfaces) of the navi backend.

These interfaces decouple the navigator and the video loader from concrete storage and
transport, so the same logic runs against files, memory, Redis or remote APIs.

# Key Interfaces

  - GraphLoader: loads the navigator graph (file, memory).
  - SessionStore: persists navigator sessions (memory, file, Redis).
  - VideoCache: time-boxed video cache (memory, file, Redis).
  - VideoSource / RemoteFeed: local dataset file and remote provider.
  - DistributedLocker: cross-replica session locking.
*/
package ports
