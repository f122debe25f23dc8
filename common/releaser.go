// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
package common

// Releaser is an interface for types owning resources that should be released
// after use. Shared handles release their resources once the last holder
// called Release.
type Releaser interface {
	// Release drops the caller's claim on the bound resources. The object this
	// function is called on becomes invalid for any future operation afterwards.
	Release()
}
