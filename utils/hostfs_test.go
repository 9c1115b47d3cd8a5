/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  hostfs_test.go
 */

package utils

import (
  "testing"

  "github.com/stretchr/testify/require"
)

func TestMemHostFS( t *testing.T ) {

  fs:= NewMemHostFS ()

  // Escriure crea els ancestres.
  require.NoError ( t, fs.WriteAllBytes ( "/a/b/c.bin", []byte{1,2} ) )
  require.True ( t, fs.FileExists ( "/a/b/c.bin" ) )
  require.False ( t, fs.FileExists ( "/a/b" ) )
  require.True ( t, fs.DirectoryExists ( "/a" ) )
  require.True ( t, fs.DirectoryExists ( "/a/b" ) )

  data,err:= fs.ReadAllBytes ( "/a/b/c.bin" )
  require.NoError ( t, err )
  require.Equal ( t, []byte{1,2}, data )

  // Llistats.
  require.NoError ( t, fs.CreateDirectory ( "/a/b/d" ) )
  files,err:= fs.ListFiles ( "/a/b" )
  require.NoError ( t, err )
  require.Equal ( t, []string{"c.bin"}, files )
  dirs,err:= fs.ListDirectories ( "/a/b" )
  require.NoError ( t, err )
  require.Equal ( t, []string{"d"}, dirs )

  // Esborrats.
  require.NoError ( t, fs.DeleteFile ( "/a/b/c.bin" ) )
  require.False ( t, fs.FileExists ( "/a/b/c.bin" ) )
  require.ErrorIs ( t, fs.DeleteFile ( "/a/b/c.bin" ), ErrNotFound )
  require.NoError ( t, fs.DeleteDirectory ( "/a" ) )
  require.False ( t, fs.DirectoryExists ( "/a" ) )
  require.False ( t, fs.DirectoryExists ( "/a/b/d" ) )

  // Directori temporal.
  tmp,err:= fs.GetTempDirectory ()
  require.NoError ( t, err )
  require.True ( t, fs.DirectoryExists ( tmp ) )

  // Els errors de lectura són NotFound.
  _,err= fs.ReadAllBytes ( "/no/such/file" )
  require.ErrorIs ( t, err, ErrNotFound )

} // end TestMemHostFS


func TestMemHostFSOpenAccessor( t *testing.T ) {

  fs:= NewMemHostFS ()
  require.NoError ( t, fs.WriteAllBytes ( "/img.bin", []byte("abc") ) )
  acc,err:= fs.OpenAccessor ( "/img.bin" )
  require.NoError ( t, err )
  require.Equal ( t, int64(3), acc.Len () )

} // end TestMemHostFSOpenAccessor
