// Package extract decomposes a captcha image into per-character point clouds.
//
// Two input variants are supported behind a single Extract entry point:
//
//   - MarkupInput: SVG markup text. Shape-drawing path elements are selected
//     with goquery, decorative noise paths are filtered out, and each
//     remaining path's data string is parsed into absolute coordinates.
//   - RasterInput: raw PNG/JPEG/GIF bytes. The image is binarized with the
//     strokes bright on dark, cleaned with a morphological opening, and each
//     surviving connected component contributes its boundary pixels.
//
// Both variants sort the resulting clouds by the leftmost X of their bounding
// boxes, reconstructing left-to-right reading order. That order is load
// bearing: training pairs the i-th glyph with the i-th label character, and
// recognition concatenates labels in glyph order.
//
// # Noise Filtering
//
// Captchas deliberately include decoration meant to defeat naive parsers.
// The markup variant drops paths with fill="none" or a stroke attribute
// (noise arcs are stroked, characters are filled). The raster variant drops
// components below a minimum area or height, and the morphological opening
// removes speckle and thin strike-through lines before components are found.
//
// # Curve Policy
//
// Path curve commands (C, S, Q, T) emit their control points as cloud
// vertices alongside the endpoint. Shapes are matched as point clouds, never
// rendered, so the control polygon is as good a signature as a flattened
// curve and considerably cheaper. Arc commands contribute only their
// endpoint. This matches the flattening behavior the knowledge base was
// trained with; changing it would require retraining.
package extract
