/*
   Copyright The containerd Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

/*
#include <errno.h>

static void xattrshim_set_errno(int e) { errno = e; }
*/
import "C"

import (
	"syscall"
)

// setErrno stores e in the C errno of the calling thread. Exported calls run
// on the caller's thread, so the caller sees it right after the call returns.
func setErrno(e syscall.Errno) {
	C.xattrshim_set_errno(C.int(e))
}
