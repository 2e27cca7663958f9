package signs

import "math/rand"

// Quiz is one multiple-choice question: a video to watch and four candidate
// answers, one of which is the sign shown in the video.
type Quiz struct {
	Sign      string   `json:"sign"`
	VideoPath string   `json:"video_path"`
	Options   []string `json:"quiz_options"`
}

// NewQuiz generates a quiz from the model-action vocabulary: four distinct
// signs with a uniformly random correct slot. Returns ok=false when the
// correct sign has no resolvable video; the caller is expected to retry or
// fall back to a backend-provided quiz.
func (ix *Index) NewQuiz(r *rand.Rand) (Quiz, bool) {
	if len(ModelActions) < 4 {
		return Quiz{}, false
	}

	perm := r.Perm(len(ModelActions))
	options := make([]string, 4)
	for i := 0; i < 4; i++ {
		options[i] = ModelActions[perm[i]]
	}

	correct := options[r.Intn(4)]
	path, ok := ix.Resolve(correct)
	if !ok {
		return Quiz{}, false
	}

	return Quiz{
		Sign:      correct,
		VideoPath: path,
		Options:   options,
	}, true
}
