/*
Package runner implements the interactive chat loop over a session.

It is the terminal counterpart of the agent execution page: it prints the conversation,
reads one message at a time, and blocks while the agent replies. The runner owns no chat
state; every message goes through a session.Session, so the single-flight and error
formatting rules are the session's.

# Key Components

  - Runner: the loop. It stops on EOF, on /quit or /exit, and on interrupt. An interrupt
    while a reply is pending only stops the wait, the reply is printed when it arrives,
    and the next interrupt quits.
  - SignalManager: SIGINT/SIGTERM as a context that can be re-armed.
  - IOHandler: decouples how messages are shown and read (text or JSON lines).
  - TextHandler: the interactive handler, optionally rendering replies as markdown.
  - JSONHandler: a structured handler for scripts and pipes.

# Usage

	chat, _ := console.OpenChat(ctx, agentID)

	r := runner.NewRunner(chat,
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
