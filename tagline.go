// Package tagline parses lightweight inline markup tags embedded in dialogue text.
//
// Tagline uses single-character < and > delimiters for reveal control tags:
//
//	Hello <wait=0.5>traveler<speed=2>, welcome!
//
// # Basic Usage
//
// Create a scanner and collect the tags in a text:
//
//	scanner := tagline.NewScanner()
//	tags, err := scanner.Tags("Hello <wait=0.5>world!")
//	// tags: one wait tag with parameter "0.5"
//
// Strip the markup to get the plain display string:
//
//	plain, _ := scanner.StripAll("Hello <wait=0.5>world!")
//	// plain: "Hello world!"
//
// # Tag Syntax
//
// Opening tags carry an optional parameter after =:
//
//	<wait=1.5>
//	<color=#FF00FFFF>
//	<size="14">
//
// Closing tags start with a slash:
//
//	<speed=2>fast part</speed>
//
// A parameter wrapped in double quotes has exactly one quote pair stripped,
// so <size="14"> yields the parameter 14. Tags are inspected through the
// immutable Tag value:
//
//	tag := tagline.NewTag("<color=#FF00FFFF>")
//	tag.Type()      // "color"
//	tag.Parameter() // "#FF00FFFF"
//	tag.IsClosing() // false
//
// # Typewriter Playback
//
// The typewriter turns tagged text into a reveal sequence of frames: one
// glyph per visible rune, pause frames for wait tags, and pass-through tag
// frames for everything the host renders itself (color and friends):
//
//	tw, _ := tagline.NewTypewriter()
//	frames, _ := tw.Sequence("Hi<wait=1>!")
//	// frames: glyph 'H', glyph 'i', pause 1s, glyph '!'
//
// Play delivers frames in real time, honoring the per-frame delays:
//
//	err := tw.Play(ctx, text, func(f tagline.Frame) error {
//	    if f.Kind == tagline.FrameGlyph {
//	        fmt.Printf("%c", f.Glyph)
//	    }
//	    return nil
//	})
//
// # Reveal Profiles
//
// Timing is controlled by a profile (characters per second, wait and speed
// tag types, punctuation pauses), loaded from YAML:
//
//	profile, _ := tagline.ParseProfile(data)
//	tw, _ := tagline.NewTypewriter(tagline.WithProfile(profile))
//
// # Script Storage
//
// Dialogue scripts (YAML frontmatter + tagged body) can be persisted through
// pluggable storage drivers (memory, filesystem, bolt, postgres):
//
//	storage, _ := tagline.OpenStorage("bolt", "tagline.db")
//	defer storage.Close()
//
//	script, _ := tagline.ParseScript(document)
//	err := storage.Save(ctx, &tagline.StoredScript{
//	    Name:    script.Name,
//	    Speaker: script.Speaker,
//	    Body:    script.Body,
//	})
//
// # Error Handling
//
// Absence of a tag is not an error: ParseNext returns (nil, nil) when the
// searched window holds no complete tag. Malformed markup (an opening
// delimiter that never closes) fails loudly with descriptive errors carrying
// offset, line, and column information:
//
//	_, err := scanner.StripAll("Hello <wait")
//	if err != nil {
//	    // err describes the malformed tag and where it sits
//	}
//
// # Configuration
//
// Scanners and typewriters take functional options:
//
//	scanner := tagline.NewScanner(
//	    tagline.WithLogger(logger),
//	)
//	tw, _ := tagline.NewTypewriter(
//	    tagline.WithProfile(profile),
//	    tagline.WithScanner(scanner),
//	)
package tagline
