// Package lingo provides an AI-powered translation and proofreading engine
// for localization message sets.
//
// Lingo splits a message set into ordered batches, renders a prompt per batch,
// sends it to a language model provider (Gemini, OpenAI, Anthropic) and
// reconciles the structured or free-text answer back into the original key
// space. Malformed answers never fail a run: translation falls back to the
// source text and proofreading reports nothing for the affected batch.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/lingo"
//	    "github.com/ZaguanLabs/lingo/provider"
//	)
//
//	func main() {
//	    ctx := context.Background()
//	    p, err := provider.New(ctx, provider.NameGemini, provider.Config{
//	        APIKey: os.Getenv("GEMINI_API_KEY"),
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    engine := lingo.NewEngine(p)
//
//	    messages := lingo.NewMessageMap()
//	    messages.Set("home.title", "Welcome back, {name}!")
//
//	    result, err := engine.Translate(ctx, messages, lingo.TranslateOptions{
//	        TargetLang: "fr",
//	        OnProgress: func(current, total int) { fmt.Printf("%d/%d\n", current, total) },
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Get("home.title"))
//	}
package lingo
