// Package match implements shape matching: a symmetric point-set distance
// and the nearest-neighbor classifier that turns extracted glyphs into
// characters using the knowledge base.
//
// # Distance
//
// The dissimilarity score is a symmetric Chamfer distance: for each point in
// one cloud, the squared Euclidean distance to its nearest point in the
// other cloud is averaged, and the two directional averages are averaged
// again. The score is zero for identical clouds and symmetric by
// construction, but it is NOT a true metric: the triangle inequality does
// not hold, so no algorithm here may rely on it.
//
// # Scaling
//
// The brute-force scan is O(|A|*|B|) per pair and O(samples) pairs per
// glyph, which dominates total cost as the knowledge base grows. Both clouds
// are downsampled to a bounded point count first, which keeps single
// comparisons cheap, but the linear scan over samples is a known scaling
// limit. The Metric interface exists so an accelerated nearest-neighbor
// structure can replace the scan without touching the classifier contract;
// at current base sizes (hundreds of samples) the scan is not worth
// replacing.
//
// # Concurrency
//
// Distance computation is pure. The Classifier's sample snapshot is guarded
// so a training-triggered reload swaps the whole collection at once;
// in-flight classifications keep using the snapshot they started with and
// never observe a partially rebuilt base. Distance results are not cached;
// repeated identical queries recompute from scratch.
package match
