// Package espeak speaks text offline through libespeak-ng. It plays audio
// directly and never produces a file.
package espeak

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <espeak-ng/speak_lib.h>

static int
espeak_say(const char *text, const char *lang)
{
	if (!text || !lang)
	{ return -1; }

	if (espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0) < 0)
	{ return -2; }

	espeak_VOICE specs = { .languages = lang };
	espeak_SetVoiceByProperties(&specs);

	espeak_Synth(text, 0, 0, 0, 0, espeakCHARS_UTF8, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return 0;
}
*/
import "C"

import (
	"context"
	"fmt"
	"sync"
	"unsafe"
)

// Voice is a blocking speaker for one language, e.g. "hi".
type Voice struct {
	mu   sync.Mutex
	lang string
}

func New(lang string) *Voice {
	if lang == "" {
		lang = "hi"
	}
	return &Voice{lang: lang}
}

// Speak blocks until playback finishes. The context is only checked before
// synthesis starts; libespeak cannot be interrupted mid-utterance.
func (v *Voice) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	clang := C.CString(v.lang)
	defer C.free(unsafe.Pointer(clang))

	if rc := C.espeak_say(ctext, clang); rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}
	return nil
}
