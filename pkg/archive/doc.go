// Package archive reads gzip-compressed tar archives as a forward-only
// stream of file entries.
//
// # Overview
//
// Crates published to crates.io are distributed as ".crate" files, which are
// plain tar archives compressed with gzip. [Reader] decompresses the stream
// incrementally and yields the regular files it contains in archive order,
// so a caller can look for one file without holding the uncompressed archive
// in memory or writing anything to disk.
//
// # Usage
//
//	r, err := archive.Open(data)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for {
//	    e, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(e.Name, e.Size)
//	}
//
// # Errors
//
// Malformed gzip or tar data surfaces as an [errors.Error] with code
// [errors.ErrCodeArchiveFormat], whether it is detected while opening the
// stream, while reading a header, or while reading entry content.
//
// A Reader cannot be rewound. To traverse the same archive twice, create a
// second Reader over the original bytes.
package archive
