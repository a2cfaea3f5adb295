/*
Package navi is the data and logic backend of the co-parenting advocacy site: the survival
navigator quiz, the judgment catalog and the YouTube video feed.

The navigator walks a static graph of questions toward a terminal result. Each answer
appends exactly one decision to the session; a result is a sink until the user restarts.
The graph is fetched once, on first start, and cached for the life of the Navigator.

# Architecture

The module follows a hexagonal layout:

  - pkg/domain holds the pure types (graph, session, steps, videos, judgments).
  - pkg/ports declares the storage and transport interfaces.
  - pkg/adapters provides memory, file, Redis and HTTP implementations.
  - internal/runtime holds the pure transition functions and the engine.

# Usage

	nav, err := navi.New("data/survival-navi.json")
	if err != nil {
		log.Fatal(err)
	}

	ctl := nav.NewController("local")
	step, err := ctl.Start(ctx)
	if errors.Is(err, domain.ErrGraphUnavailable) {
		// show the retry indicator; calling Start again is a fresh attempt
	}

	for step.Kind == domain.StepQuestion {
		step, err = ctl.Answer(ctx, step.Question.ID, choose(step.Question))
		if err != nil {
			log.Fatal(err)
		}
	}
	fmt.Println(step.Result.Advice)

Servers that hold many sessions use pkg/session together with a ports.SessionStore
instead of a Controller.
*/
package navi
