package catalog

import "sync"

var (
	ipus    = []Element{IPU1_0, IPU1_1}
	dsps    = []Element{DSP1, DSP2}
	eves    = []Element{EVE1, EVE2, EVE3, EVE4}
	ipu1_0  = []Element{IPU1_0}
	a15Only = []Element{A15}
)

func join(sets ...[]Element) []Element {
	var out []Element
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

// source has no inputs and exactly one output.
func source(name, symbol string, allowed []Element) Kind {
	return Kind{Name: name, Input: None, Output: ExactlyOne, Allowed: allowed, Symbol: symbol}
}

// transform has exactly one input and one output.
func transform(name, symbol string, allowed []Element) Kind {
	return Kind{Name: name, Input: ExactlyOne, Output: ExactlyOne, Allowed: allowed, Symbol: symbol}
}

// alg is an algorithm plugin; all of them share the "Alg" numbering
// category and the element-prefixed ALG link ID.
func alg(name string, in, out Contract, allowed []Element) Kind {
	return Kind{
		Name: name, Category: "Alg", Input: in, Output: out, Allowed: allowed,
		Symbol: "ALG", ElementPrefixed: true,
	}
}

func builtinKinds() []Kind {
	anyCore := join(ipus, []Element{A15}, dsps, eves)
	return []Kind{
		// Sources.
		{Name: "Capture", Input: None, Output: ExactlyOne, Allowed: ipu1_0, Ceiling: 2, Symbol: "CAPTURE"},
		{Name: "IssCapture", Input: None, Output: ExactlyOne, Allowed: ipu1_0, Symbol: "ISSCAPTURE"},
		{Name: "UltrasonicCapture", Input: None, Output: ExactlyOne, Allowed: ipu1_0, Ceiling: 1,
			Symbol: "ULTRASONIC_CAPTURE", Singleton: true},
		{Name: "AvbRx", Input: None, Output: ExactlyOne, Allowed: []Element{IPU1_1, IPU1_0, A15},
			Ceiling: 1, Symbol: "AVB_RX", ElementPrefixed: true, Singleton: true},
		source("NullSource", "NULL_SRC", anyCore),
		{Name: "GrpxSrc", Input: AtMostOne, Output: ExactlyOne, Allowed: ipu1_0, Symbol: "GRPX_SRC", ElementPrefixed: true},

		// Framework links.
		{Name: "Dup", Input: ExactlyOne, Output: AtLeastOne, Allowed: anyCore, Symbol: "DUP", ElementPrefixed: true, MultiOut: true},
		{Name: "Split", Input: ExactlyOne, Output: AtLeastOne, Allowed: anyCore, Symbol: "SPLIT", ElementPrefixed: true, MultiOut: true},
		{Name: "Select", Input: ExactlyOne, Output: AtLeastOne, Allowed: anyCore, Symbol: "SELECT", ElementPrefixed: true, MultiOut: true},
		{Name: "Merge", Input: AtLeastOne, Output: ExactlyOne, Allowed: anyCore, Symbol: "MERGE", ElementPrefixed: true, MultiIn: true},
		{Name: "Gate", Input: ExactlyOne, Output: ExactlyOne, Allowed: anyCore, Symbol: "GATE", ElementPrefixed: true},
		{Name: "Sync", Input: ExactlyOne, Output: ExactlyOne, Allowed: anyCore, Symbol: "SYNC", ElementPrefixed: true},
		{Name: "Null", Input: AtLeastOne, Output: None, Allowed: anyCore, Symbol: "NULL", ElementPrefixed: true, MultiIn: true},

		// Hardware accelerators on the M4.
		{Name: "VPE", Input: ExactlyOne, Output: ExactlyOne, Allowed: ipu1_0, Symbol: "VPE", MultiOut: true},
		transform("Hcf", "HCF", ipu1_0),
		transform("Encode", "VENC", ipu1_0),
		transform("Decode", "VDEC", ipu1_0),
		transform("IssM2mSimcop", "ISSM2MSIMCOP", ipu1_0),
		{Name: "IssM2mIsp", Input: AtLeastOne, Output: AtLeastOne, Allowed: ipu1_0, Symbol: "ISSM2MISP", MultiIn: true, MultiOut: true},

		// Sinks.
		{Name: "Display", Input: ExactlyOne, Output: None, Allowed: ipu1_0, Symbol: "DISPLAY"},
		{Name: "DisplayCtrl", Input: None, Output: None, Allowed: ipu1_0, Ceiling: 1, Symbol: "DISPLAYCTRL", Singleton: true},
		{Name: "SgxDisplay", Input: ExactlyOne, Output: None, Allowed: a15Only, Symbol: "SGXDISPLAY"},
		{Name: "DrmDisplay", Input: AtLeastOne, Output: None, Allowed: a15Only, Symbol: "DRMDISPLAY", MultiIn: true},
		{Name: "Sgx3Dsrv", Input: AtLeastOne, Output: None, Allowed: a15Only, Symbol: "SGX3DSRV", MultiIn: true},

		// Algorithm plugins.
		alg("Alg_ColorToGray", ExactlyOne, ExactlyOne, dsps),
		alg("Alg_DMASwMs", ExactlyOne, ExactlyOne, join(dsps, []Element{A15}, ipus)),
		alg("Alg_DenseOptFlow", ExactlyOne, ExactlyOne, eves),
		alg("Alg_EdgeDetect", ExactlyOne, ExactlyOne, eves),
		alg("Alg_SoftIsp", ExactlyOne, None, eves),
		alg("Alg_IssAewb", ExactlyOne, None, ipu1_0),
		alg("Alg_Crc", ExactlyOne, ExactlyOne, ipu1_0),
		alg("Alg_FeaturePlaneComputation", ExactlyOne, ExactlyOne, eves),
		alg("Alg_ObjectDetection", ExactlyOne, ExactlyOne, dsps),
		alg("Alg_FrameCopy", ExactlyOne, ExactlyOne, join(dsps, []Element{A15}, eves)),
		alg("Alg_MyAlgFinish", ExactlyOne, ExactlyOne, ipu1_0),
		alg("Alg_MyAlg1", ExactlyOne, ExactlyOne, anyCore),
		alg("Alg_MyAlg2", ExactlyOne, ExactlyOne, anyCore),
		alg("Alg_MyAlg3", ExactlyOne, ExactlyOne, anyCore),
		alg("Alg_Census", ExactlyOne, ExactlyOne, eves),
		alg("Alg_DisparityHamDist", AtLeastOne, AtMostOne, eves),
		alg("Alg_UltrasonicFusion", ExactlyOne, AtLeastOne, []Element{DSP2, DSP1}),
		alg("Alg_GeoAlign", ExactlyOne, ExactlyOne, dsps),
		alg("Alg_ObjectDraw", ExactlyOne, ExactlyOne, ipus),
		alg("Alg_PhotoAlign", AtLeastOne, AtLeastOne, dsps),
		alg("Alg_Synthesis", ExactlyOne, ExactlyOne, dsps),
		alg("Alg_SparseOpticalFlow", ExactlyOne, ExactlyOne, ipu1_0),
		alg("Alg_SparseOpticalFlowDraw", ExactlyOne, ExactlyOne, ipu1_0),
		alg("Alg_LaneDetect", ExactlyOne, ExactlyOne, ipu1_0),
		alg("Alg_LaneDetectDraw", ExactlyOne, ExactlyOne, ipu1_0),
		alg("Alg_VectoImg", ExactlyOne, ExactlyOne, dsps),
		alg("Alg_SubframeCopy", ExactlyOne, ExactlyOne, eves),
		alg("Alg_RemapMerge", ExactlyOne, ExactlyOne, eves),
		alg("Alg_StereoPostProcess", ExactlyOne, ExactlyOne, dsps),
	}
}

var builtin = sync.OnceValue(func() *Catalog {
	return MustNew(builtinKinds()...)
})

// Builtin returns the catalog of Vision SDK link kinds.
func Builtin() *Catalog {
	return builtin()
}
