package x86_64

import (
	"github.com/HeroicKatora/direct-asm/internal/arch"
	"github.com/HeroicKatora/direct-asm/internal/diag"
)

var featureNames = []string{
	"fpu", "mmx", "tdnow", "sse", "sse2", "sse3", "vmx", "ssse3", "sse4a",
	"sse41", "sse42", "sse5", "avx", "avx2", "fma", "bmi1", "bmi2", "tbm",
	"rtm", "invpcid", "mpx", "sha", "prefetchwt1", "cyrix", "amd",
}

var knownFeatures = arch.NewFeatureSet(featureNames...)

func allFeatures() arch.FeatureSet {
	return arch.NewFeatureSet(featureNames...)
}

func (b *Backend) SetFeatures(st *arch.State, names []string) error {
	fs := arch.NewFeatureSet()
	for _, n := range names {
		if !knownFeatures.Has(n) {
			return diag.New(diag.UnknownFeature, n)
		}
		fs[n] = struct{}{}
	}
	st.Features = fs
	return nil
}
