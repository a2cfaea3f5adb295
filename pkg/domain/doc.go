/*
Package domain contains the core domain models of the navi backend.

It defines the survival navigator graph (questions, results, options), the navigator
session with its append-only decision path, and the records consumed by the data
tooling (judgments, videos, cache entries). This package is kept pure and free of
I/O so the state machine can be exercised without any rendering surface.

# Key Entities

  - Graph: the static question/result DAG, loaded once and shared read-only.
  - Session: the per-user navigator snapshot (phase, current node, decision path).
  - Step: one rendered unit of the visible history (a question or a result).
  - Judgment, Video: dataset records for the judgment browser and video carousel.
*/
package domain
